package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"semql/internal/compile"
	"semql/internal/config"
	internaldb "semql/internal/db"
	"semql/internal/render"
	"semql/internal/repository"
	"semql/internal/service/semantic"
	"semql/internal/warehouse"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compile a metric query and execute it against the warehouse",
		Long: "Compile a metric query into SQL and execute it against the warehouse " +
			"configured through the environment (WAREHOUSE_DRIVER, WAREHOUSE_DSN, DEFAULT_DATASET).",
		RunE: func(cmd *cobra.Command, _ []string) error {
			layerPath, _ := cmd.Flags().GetString("layer")
			layer, err := loadLayer(layerPath)
			if err != nil {
				return err
			}
			query, err := loadQuery(cmd)
			if err != nil {
				return err
			}

			if err := config.LoadDotEnv(".env"); err != nil {
				return err
			}
			cfg, err := config.LoadFromEnv()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			client, err := warehouse.Open(ctx, warehouse.Config{
				Driver:         cfg.WarehouseDriver,
				DSN:            cfg.WarehouseDSN,
				DefaultDataset: cfg.DefaultDataset,
			})
			if err != nil {
				return err
			}
			defer client.Close() //nolint:errcheck

			historyDB, err := internaldb.OpenSQLite(cfg.HistoryDBPath)
			if err != nil {
				return err
			}
			defer historyDB.Close() //nolint:errcheck
			if err := internaldb.RunMigrations(historyDB); err != nil {
				return err
			}

			opts := compileOptions(cmd)
			if cfg.StrictDimensions {
				opts = compile.Options{OnUnresolvedDimension: compile.ErrorUnresolved}
			}

			svc := semantic.NewService(client, repository.NewQueryHistoryRepo(historyDB), opts, slog.Default())
			result, err := svc.Run(ctx, layer, query)
			if err != nil {
				return err
			}

			maxRows, _ := cmd.Flags().GetInt("max-rows")
			if maxRows <= 0 {
				maxRows = cfg.MaxPreviewRows
			}

			output, _ := cmd.Flags().GetString("output")
			if output == "json" {
				rows := result.Result.Rows
				if len(rows) > maxRows {
					rows = rows[:maxRows]
				}
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]interface{}{
					"sql":       result.Plan.SQL,
					"columns":   result.Result.Columns,
					"rows":      rows,
					"row_count": result.Result.RowCount,
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), result.Plan.SQL)
			fmt.Fprintln(cmd.OutOrStdout())
			return render.Preview(cmd.OutOrStdout(), result.Result, maxRows)
		},
	}

	addQueryFlags(cmd)
	cmd.Flags().Int("max-rows", 0, "maximum preview rows (default from MAX_PREVIEW_ROWS)")
	return cmd
}
