package graph

import (
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// recordValue reads one column of a result row. Missing keys, nulls and
// values of another type all yield the zero value.
func recordValue[T neo4j.RecordValue](record *neo4j.Record, key string) T {
	var zero T
	if record == nil {
		return zero
	}
	v, isNil, err := neo4j.GetRecordValue[T](record, key)
	if err != nil || isNil {
		return zero
	}
	return v
}
