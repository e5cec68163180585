package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"semql/internal/compile"
	"semql/internal/domain"
)

// loadLayer reads and strictly parses a semantic layer file, choosing the
// codec by file extension.
func loadLayer(path string) (*domain.SemanticLayer, error) {
	if path == "" {
		return nil, fmt.Errorf("--layer is required")
	}
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		return nil, fmt.Errorf("read layer file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return compile.ParseLayerYAML(data)
	default:
		return compile.ParseLayerJSON(data)
	}
}

// loadQuery builds a query either from --query (a file) or from the
// --metric/--dimension/--filter flags.
func loadQuery(cmd *cobra.Command) (*domain.Query, error) {
	queryPath, _ := cmd.Flags().GetString("query")
	metrics, _ := cmd.Flags().GetStringArray("metric")
	dimensions, _ := cmd.Flags().GetStringArray("dimension")
	filters, _ := cmd.Flags().GetStringArray("filter")

	if queryPath != "" {
		if len(metrics)+len(dimensions)+len(filters) > 0 {
			return nil, fmt.Errorf("--query cannot be combined with --metric/--dimension/--filter")
		}
		data, err := os.ReadFile(queryPath) //nolint:gosec // path is caller-controlled
		if err != nil {
			return nil, fmt.Errorf("read query file: %w", err)
		}
		switch strings.ToLower(filepath.Ext(queryPath)) {
		case ".yaml", ".yml":
			return compile.ParseQueryYAML(data)
		default:
			return compile.ParseQueryJSON(data)
		}
	}

	query := &domain.Query{Metrics: metrics, Dimensions: dimensions}
	for _, raw := range filters {
		f, err := parseFilterFlag(raw)
		if err != nil {
			return nil, err
		}
		query.Filters = append(query.Filters, f)
	}
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return query, nil
}

// parseFilterFlag parses a --filter value in field:operator:value form.
// Numeric values become numbers; everything else stays a string.
func parseFilterFlag(raw string) (domain.Filter, error) {
	parts := strings.SplitN(raw, ":", 3)
	if len(parts) != 3 {
		return domain.Filter{}, fmt.Errorf("filter %q must be field:operator:value", raw)
	}

	var value interface{} = parts[2]
	if n, err := strconv.Atoi(parts[2]); err == nil {
		value = n
	} else if f, err := strconv.ParseFloat(parts[2], 64); err == nil {
		value = f
	}

	return domain.Filter{Field: parts[0], Operator: parts[1], Value: value}, nil
}

func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("query", "q", "", "path to a query file (.json, .yaml, .yml)")
	cmd.Flags().StringArrayP("metric", "m", nil, "metric to request (repeatable)")
	cmd.Flags().StringArrayP("dimension", "d", nil, "dimension to group by (repeatable)")
	cmd.Flags().StringArrayP("filter", "f", nil, "filter in field:operator:value form (repeatable)")
	cmd.Flags().Bool("strict", false, "fail on dimensions missing from the layer instead of omitting them")
}

func compileOptions(cmd *cobra.Command) compile.Options {
	strict, _ := cmd.Flags().GetBool("strict")
	if strict {
		return compile.Options{OnUnresolvedDimension: compile.ErrorUnresolved}
	}
	return compile.Options{OnUnresolvedDimension: compile.OmitUnresolved}
}
