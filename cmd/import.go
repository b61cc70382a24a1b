package cmd

import (
	"fmt"

	"bikefit/config"
	"bikefit/repository"
	"bikefit/service"

	"github.com/spf13/cobra"
)

func newImportCmd(a *app) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "import <dataset.csv>",
		Short: "Replace the bike dataset in the SQLite store with a CSV file",
		Long: `Reads a bike geometry CSV (one row per frame size, with at least reach and
stack columns) and replaces the dataset in the SQLite store. Rows without a
usable reach or stack are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if dbPath == "" {
				dbPath = a.cfg.Store.SQLitePath
			}
			records, skipped, err := repository.LoadBikesCSVFile(args[0])
			if err != nil {
				return err
			}

			cfg := *a.cfg
			cfg.Store.Backend = config.BackendSQLite
			cfg.Store.SQLitePath = dbPath
			cfg.Store.DatasetCSV = ""
			cfg.Cache.Backend = config.BackendNone
			st, err := openStores(ctx, &cfg, a.logger)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := service.NewSearchService(st.bikes, cfg.Search.MaxResults, a.logger).Import(ctx, records); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %d bikes into %s (%d rows skipped)\n", len(records), dbPath, skipped)
			return err
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (default store.sqlite_path)")
	return cmd
}
