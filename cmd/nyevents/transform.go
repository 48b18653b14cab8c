// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/nyevents/internal/transform"
	"github.com/pdiddy/nyevents/pkg/types"
)

var transformCmd = &cobra.Command{
	Use:   "transform [events-file]",
	Short: "Validate and transform raw events into enriched records",
	Long: `Transform runs validation over a raw snapshot, then normalizes and
enriches the admitted records: canonical fields, event ids, borough and
season tags, quality scores, categories, and business rules. Without an
argument it uses the newest snapshot in the raw data directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTransform,
}

func init() {
	transformCmd.Flags().String("rules", "", "YAML file overriding keyword tables")
	transformCmd.Flags().Bool("json", false, "output the full result as JSON")

	rootCmd.AddCommand(transformCmd)
}

func runTransform(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()

	path, err := resolveInput(args, cfg.Fetch.RawDir)
	if err != nil {
		return err
	}
	events, err := loadRawEvents(path)
	if err != nil {
		return err
	}

	rulesPath, _ := cmd.Flags().GetString("rules")
	rules, err := loadRuleFile(rulesPath)
	if err != nil {
		return err
	}

	result, err := transformEvents(context.Background(), cfg, rules, events)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(result)
	}

	printTransformResult(result)
	return nil
}

// transformEvents runs the validate → transform chain shared by the
// transform, export, and run commands.
func transformEvents(ctx context.Context, cfg types.PipelineConfig, rules *ruleFile, events []types.RawEvent) (types.TransformResult, error) {
	report, err := newOrchestrator(cfg.Validation, rules).ValidateBatch(ctx, events, os.Stderr)
	if err != nil {
		return types.TransformResult{}, err
	}

	admitted := make([]types.RawEvent, 0, len(report.Valid))
	for _, outcome := range report.Valid {
		admitted = append(admitted, outcome.Event)
	}

	pipeline := transform.NewPipeline(transform.Config{
		Normalizer: transform.NormalizerConfig{
			Fields:       rules.fieldsConfig(),
			BoroughRules: rules.boroughRules(),
			SeasonRules:  rules.seasonRules(),
		},
		Categorizer: transform.CategorizerConfig{
			Direct: rules.directCategories(),
			Scored: rules.categoryRules(),
		},
		Rules: transform.RuleConfig{
			PriorityKeywords: rules.priorityKeywords(),
			MaxFutureDays:    cfg.Transform.MaxFutureDays,
		},
	})
	return pipeline.TransformBatch(ctx, admitted, os.Stderr)
}

func printTransformResult(result types.TransformResult) {
	meta := result.Metadata
	fmt.Fprintf(os.Stdout, "Run %s: %d of %d transformed, %d skipped (%.1f%%)\n",
		meta.RunID, meta.SuccessfullyTransformed, meta.TotalInput,
		meta.SkippedCount, meta.SuccessRatePercent)

	if len(result.Transformed) == 0 {
		return
	}

	fmt.Fprintf(os.Stdout, "\n%s  %s  %s  %s  %s  %s\n",
		cell("Event ID", 16), cell("Title", 36), cell("Date", 10),
		cell("Borough", 13), cell("Category", 14), "Quality")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 104))
	for _, ev := range result.Transformed {
		fmt.Fprintf(os.Stdout, "%s  %s  %s  %s  %s  %.1f\n",
			cell(ev.EventID, 16), cell(ev.Title, 36), cell(ev.StartDate, 10),
			cell(ev.Borough, 13), cell(ev.PrimaryCategory, 14), ev.QualityScore)
	}

	m := result.Metrics
	fmt.Fprintf(os.Stdout, "\n%d events, %d featured, average quality %.1f\n",
		m.TotalEvents, m.FeaturedCount, m.AverageQuality)
	printCountMap("By borough", m.ByBorough)
	printCountMap("By category", m.ByCategory)
}

func printCountMap(label string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %d", k, counts[k]))
	}
	fmt.Fprintf(os.Stdout, "%s: %s\n", label, strings.Join(parts, ", "))
}
