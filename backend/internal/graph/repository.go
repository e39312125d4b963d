package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"portfolio-assistant/backend/internal/knowledge"
	apperrors "portfolio-assistant/backend/pkg/errors"
	"portfolio-assistant/backend/pkg/logger"
)

// Repository mirrors the knowledge store into Neo4j for browsing. The
// answer engine never reads from it.
type Repository struct {
	driver neo4j.DriverWithContext
	logger *zap.Logger
}

// NewRepository creates a new graph repository
func NewRepository(driver neo4j.DriverWithContext) *Repository {
	return &Repository{
		driver: driver,
		logger: logger.Get(),
	}
}

// Connect opens a driver and verifies the server is reachable
func Connect(ctx context.Context, uri, user, password string) (neo4j.DriverWithContext, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, apperrors.NewGraphConnectionFailed(uri, err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, apperrors.NewGraphConnectionFailed(uri, err)
	}
	return driver, nil
}

type dialFunc func(ctx context.Context) (neo4j.DriverWithContext, error)

// ConnectWithRetry calls Connect up to attempts times, waiting between tries.
// Only retryable failures are retried; the last error is returned.
func ConnectWithRetry(ctx context.Context, uri, user, password string, attempts int, wait time.Duration) (neo4j.DriverWithContext, error) {
	return dialWithRetry(ctx, func(ctx context.Context) (neo4j.DriverWithContext, error) {
		return Connect(ctx, uri, user, password)
	}, attempts, wait, logger.Get())
}

func dialWithRetry(ctx context.Context, dial dialFunc, attempts int, wait time.Duration, log *zap.Logger) (neo4j.DriverWithContext, error) {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		driver, err := dial(ctx)
		if err == nil {
			return driver, nil
		}
		lastErr = err
		if !apperrors.IsRetryable(err) || attempt == attempts {
			break
		}

		log.Warn("Neo4j not reachable, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil, lastErr
}

// Close closes the Neo4j driver connection
func (r *Repository) Close(ctx context.Context) error {
	return r.driver.Close(ctx)
}

var schemaQueries = []string{
	`CREATE CONSTRAINT entity_id IF NOT EXISTS FOR (e:Entity) REQUIRE e.id IS UNIQUE`,
	`CREATE INDEX entity_type IF NOT EXISTS FOR (e:Entity) ON (e.type)`,
	`CREATE CONSTRAINT dataset_sync_key IF NOT EXISTS FOR (s:DatasetSync) REQUIRE s.key IS UNIQUE`,
}

// EnsureSchema creates the constraints and indexes the mirror relies on
func (r *Repository) EnsureSchema(ctx context.Context) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	for _, query := range schemaQueries {
		if _, err := session.Run(ctx, query, nil); err != nil {
			return apperrors.NewGraphQueryFailed("ensure schema", err)
		}
	}
	return nil
}

// SyncKnowledge writes every entity and relationship of the store into
// Neo4j. Without force an already mirrored dataset is left untouched;
// with force the mirror is wiped first.
func (r *Repository) SyncKnowledge(ctx context.Context, store *knowledge.Store, force bool) (*SyncResult, error) {
	if err := r.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	result := &SyncResult{Fingerprint: Fingerprint(store)}

	if !force {
		current, err := r.syncedFingerprint(ctx)
		if err != nil {
			return nil, err
		}
		if current == result.Fingerprint {
			r.logger.Info("Knowledge graph already mirrored",
				zap.String("fingerprint", current),
			)
			result.Skipped = true
			return result, nil
		}
	} else {
		if err := r.Clear(ctx); err != nil {
			return nil, err
		}
		result.Wiped = true
	}

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		// the driver may retry this function
		result.Entities, result.Relationships = 0, 0

		types, entityRows := entityBatches(store.Entities())
		for _, t := range types {
			rows := entityRows[t]
			if _, err := tx.Run(ctx, mergeEntitiesQuery(t), map[string]any{"rows": rows}); err != nil {
				return nil, apperrors.NewGraphQueryFailed("merge "+string(t)+" entities", err)
			}
			result.Entities += len(rows)
		}

		relTypes, relRows := relationshipBatches(store.Relationships())
		for _, t := range relTypes {
			rows := relRows[t]
			if _, err := tx.Run(ctx, mergeRelationshipsQuery(t), map[string]any{"rows": rows}); err != nil {
				return nil, apperrors.NewGraphQueryFailed("merge "+string(t)+" relationships", err)
			}
			result.Relationships += len(rows)
		}

		_, err := tx.Run(ctx, `
			MERGE (s:DatasetSync {key: 'knowledge'})
			SET s.fingerprint = $fingerprint,
			    s.entities = $entities,
			    s.relationships = $relationships,
			    s.synced_at = datetime()
		`, map[string]any{
			"fingerprint":   result.Fingerprint,
			"entities":      result.Entities,
			"relationships": result.Relationships,
		})
		if err != nil {
			return nil, apperrors.NewGraphQueryFailed("mark sync", err)
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("Knowledge graph mirrored",
		zap.Int("entities", result.Entities),
		zap.Int("relationships", result.Relationships),
		zap.Bool("wiped", result.Wiped),
		zap.String("fingerprint", result.Fingerprint),
	)
	return result, nil
}

func mergeEntitiesQuery(t knowledge.EntityType) string {
	return fmt.Sprintf(`
		UNWIND $rows AS row
		MERGE (e:%s {id: row.id})
		SET e:%s,
		    e.name = row.name,
		    e.type = row.type,
		    e.description = row.description,
		    e += row.props
	`, EntityLabel, TypeLabel(t))
}

func mergeRelationshipsQuery(t knowledge.RelationType) string {
	return fmt.Sprintf(`
		UNWIND $rows AS row
		MATCH (a:%[1]s {id: row.from})
		MATCH (b:%[1]s {id: row.to})
		MERGE (a)-[r:%[2]s]->(b)
		SET r.strength = row.strength,
		    r.context = row.context
	`, EntityLabel, RelType(t))
}

func (r *Repository) syncedFingerprint(ctx context.Context) (string, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (s:DatasetSync {key: 'knowledge'})
		RETURN s.fingerprint AS fingerprint
	`, nil)
	if err != nil {
		return "", apperrors.NewGraphQueryFailed("read sync marker", err)
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return "", apperrors.NewGraphQueryFailed("read sync marker", err)
		}
		return "", nil
	}
	return recordValue[string](result.Record(), "fingerprint"), nil
}

// Clear removes every mirrored node, its relationships and the sync marker
func (r *Repository) Clear(ctx context.Context) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := fmt.Sprintf(`
		MATCH (n)
		WHERE n:%s OR n:DatasetSync
		DETACH DELETE n
	`, EntityLabel)
	if _, err := session.Run(ctx, query, nil); err != nil {
		return apperrors.NewGraphQueryFailed("clear mirror", err)
	}

	r.logger.Info("Knowledge graph mirror cleared")
	return nil
}

// Count returns how many entities and relationships the mirror holds
func (r *Repository) Count(ctx context.Context) (Counts, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := fmt.Sprintf(`
		MATCH (e:%[1]s)
		OPTIONAL MATCH (e)-[r]->(:%[1]s)
		RETURN count(DISTINCT e) AS entities, count(r) AS relationships
	`, EntityLabel)

	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return Counts{}, apperrors.NewGraphQueryFailed("count mirror", err)
	}
	record, err := result.Single(ctx)
	if err != nil {
		return Counts{}, apperrors.NewGraphQueryFailed("count mirror", err)
	}
	return Counts{
		Entities:      recordValue[int64](record, "entities"),
		Relationships: recordValue[int64](record, "relationships"),
	}, nil
}
