package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/clinic-quiz/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the quiz_responses table and the inquiries CSV header",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("migrate"); err != nil {
			return err
		}

		primary, err := initPrimary(ctx, cfg.Store)
		if err != nil {
			return eris.Wrap(err, "migrate: open primary store")
		}
		if primary != nil {
			defer primary.Close() //nolint:errcheck
			if err := primary.Migrate(ctx); err != nil {
				return err
			}
			zap.L().Info("primary store migrated", zap.String("backend", primary.Name()))
		}

		csvStore := store.NewCSV(cfg.CSV.Path)
		if err := csvStore.Migrate(ctx); err != nil {
			return err
		}
		zap.L().Info("csv tier ready", zap.String("path", csvStore.Path()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
