package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"portfolio-assistant/backend/internal/app"
	"portfolio-assistant/backend/internal/constants"
	"portfolio-assistant/backend/internal/graph"
	"portfolio-assistant/backend/internal/services"
	"portfolio-assistant/backend/pkg/logger"
)

func newSyncGraphCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "sync-graph",
		Short: "Mirror the knowledge graph into Neo4j",
		Long: `Writes every entity and relationship of the knowledge dataset into Neo4j
so it can be browsed with Cypher. The assistant never reads from the mirror.
An unchanged dataset is skipped unless --force is given, which wipes the
mirror first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()
			log := logger.Get()

			if err := cfg.ValidateNeo4j(); err != nil {
				return err
			}

			store, _, err := services.LoadDatasets(app.DatasetPaths(cfg))
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			driver, err := graph.ConnectWithRetry(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword,
				constants.Neo4jConnectAttempts, constants.Neo4jConnectRetryWait)
			if err != nil {
				return err
			}
			repo := graph.NewRepository(driver)
			defer repo.Close(ctx)

			result, err := repo.SyncKnowledge(ctx, store, force)
			if err != nil {
				return err
			}

			counts, countErr := repo.Count(ctx)
			if countErr != nil {
				log.Warn("Failed to count mirrored graph", zap.Error(countErr))
			}

			out := cmd.OutOrStdout()
			if result.Skipped {
				fmt.Fprintf(out, "mirror already up to date (fingerprint %s); use --force to rewrite\n", result.Fingerprint)
			} else {
				fmt.Fprintf(out, "mirrored %d entities and %d relationships (fingerprint %s)\n",
					result.Entities, result.Relationships, result.Fingerprint)
			}
			if countErr == nil {
				fmt.Fprintf(out, "neo4j now holds %d entities and %d relationships\n", counts.Entities, counts.Relationships)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "wipe the mirror before writing")
	cmd.Flags().String("neo4j-uri", "bolt://localhost:7687", "Neo4j connection URI")
	cmd.Flags().String("neo4j-user", "neo4j", "Neo4j user")
	cmd.Flags().String("neo4j-password", "", "Neo4j password")
	return cmd
}
