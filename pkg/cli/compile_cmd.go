package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"semql/internal/compile"
)

func newCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile a metric query into SQL without executing it",
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

			result, err := compile.Compile(layer, query, compileOptions(cmd))
			if err != nil {
				return err
			}

			output, _ := cmd.Flags().GetString("output")
			if output == "json" {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]interface{}{
					"sql":    result.SQL,
					"tables": result.Tables,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.SQL)
			return nil
		},
	}

	addQueryFlags(cmd)
	return cmd
}
