// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/nyevents/internal/validate"
	"github.com/pdiddy/nyevents/pkg/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate [events-file]",
	Short: "Validate raw event records",
	Long: `Validate checks each record in a raw snapshot for a future date, a
New York metro location, required fields, and duplication against earlier
records in the batch. Without an argument it validates the newest snapshot
in the raw data directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().Bool("check-links", false, "probe event URLs for reachability")
	validateCmd.Flags().Float64("similarity-threshold", 0, "duplicate title similarity threshold (default 0.8)")
	validateCmd.Flags().String("rules", "", "YAML file overriding keyword tables")
	validateCmd.Flags().Bool("json", false, "output the full report as JSON")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()

	path, err := resolveInput(args, cfg.Fetch.RawDir)
	if err != nil {
		return err
	}
	events, err := loadRawEvents(path)
	if err != nil {
		return err
	}

	if checkLinks, _ := cmd.Flags().GetBool("check-links"); checkLinks {
		cfg.Validation.CheckLinks = true
	}
	if threshold, _ := cmd.Flags().GetFloat64("similarity-threshold"); threshold > 0 {
		cfg.Validation.SimilarityThreshold = threshold
	}

	rulesPath, _ := cmd.Flags().GetString("rules")
	rules, err := loadRuleFile(rulesPath)
	if err != nil {
		return err
	}

	report, err := newOrchestrator(cfg.Validation, rules).ValidateBatch(context.Background(), events, os.Stderr)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(report)
	}

	printValidationReport(report)
	return nil
}

func newOrchestrator(cfg types.ValidationConfig, rules *ruleFile) *validate.Orchestrator {
	return validate.New(validate.Config{
		Fields:              rules.fieldsConfig(),
		Region:              rules.regionConfig(),
		SimilarityThreshold: cfg.SimilarityThreshold,
		CheckLinks:          cfg.CheckLinks,
		LinkClient:          &http.Client{Timeout: cfg.LinkTimeout},
	})
}

func printValidationReport(report types.ValidationReport) {
	s := report.Summary
	fmt.Fprintf(os.Stdout, "Validated %d events: %d valid, %d invalid (%d duplicates), success rate %.1f%%\n",
		s.Total, s.ValidCount, s.InvalidCount, s.DuplicateCount, s.SuccessRate)

	if len(report.Invalid) > 0 {
		fmt.Fprintf(os.Stdout, "\n%s  %s  %s\n", cell("Index", 5), cell("Title", 40), "Reasons")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))
		for _, outcome := range report.Invalid {
			title, _ := outcome.Event["title"].(string)
			fmt.Fprintf(os.Stdout, "%s  %s  %s\n",
				cell(fmt.Sprintf("%d", outcome.Index), 5),
				cell(title, 40),
				strings.Join(outcome.Reasons, "; "))
		}
	}

	for _, verr := range report.Errors {
		fmt.Fprintf(os.Stdout, "error: record %d: %s\n", verr.Index, verr.Message)
	}
}
