package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"semql/internal/domain"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate a semantic layer file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			layerPath, _ := cmd.Flags().GetString("layer")
			layer, err := loadLayer(layerPath)
			if err != nil {
				return err
			}

			warnings := duplicateNameWarnings(layer)

			output, _ := cmd.Flags().GetString("output")
			if output == "json" {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]interface{}{
					"valid":      true,
					"metrics":    len(layer.Metrics),
					"dimensions": len(layer.Dimensions),
					"joins":      len(layer.Joins),
					"warnings":   warnings,
				})
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: valid (%d metrics, %d dimensions, %d joins)\n",
				layerPath, len(layer.Metrics), len(layer.Dimensions), len(layer.Joins))
			for _, w := range warnings {
				fmt.Fprintf(cmd.OutOrStdout(), "warning: %s\n", w)
			}
			return nil
		},
	}
}

// duplicateNameWarnings reports names declared more than once. Lookups are
// first-match-wins, so later duplicates are silently unreachable.
func duplicateNameWarnings(layer *domain.SemanticLayer) []string {
	warnings := []string{}

	seenMetrics := map[string]bool{}
	for _, m := range layer.Metrics {
		if seenMetrics[m.Name] {
			warnings = append(warnings, fmt.Sprintf("metric %q declared more than once; only the first declaration is used", m.Name))
			continue
		}
		seenMetrics[m.Name] = true
	}

	seenDims := map[string]bool{}
	for _, d := range layer.Dimensions {
		if seenDims[d.Name] {
			warnings = append(warnings, fmt.Sprintf("dimension %q declared more than once; only the first declaration is used", d.Name))
			continue
		}
		seenDims[d.Name] = true
	}

	for _, d := range layer.Dimensions {
		if seenMetrics[d.Name] {
			warnings = append(warnings, fmt.Sprintf("%q is declared as both a dimension and a metric; the dimension shadows the metric in field resolution", d.Name))
		}
	}

	return warnings
}
