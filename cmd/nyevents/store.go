// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/nyevents/internal/store"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Inspect the run history store",
	Long: `Store queries the SQLite run history. Use list to see past pipeline
runs and show to print the events recorded for one run.`,
}

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded pipeline runs, newest first",
	RunE:  runStoreList,
}

var storeShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Print the events recorded for a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoreShow,
}

func init() {
	storeCmd.PersistentFlags().String("store-dir", "", "directory holding the history database (default data/store)")
	storeShowCmd.Flags().Bool("json", false, "output events as JSON")

	storeCmd.AddCommand(storeListCmd)
	storeCmd.AddCommand(storeShowCmd)
	rootCmd.AddCommand(storeCmd)
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dir, _ := cmd.Flags().GetString("store-dir")
	if dir == "" {
		dir = pipelineConfig().Store.Dir
	}
	return store.Open(dir)
}

func runStoreList(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	runs, err := s.ListRuns(context.Background())
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No recorded runs.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%s  %s  %s  %s  %s  %s\n",
		cell("Run ID", 36), cell("Timestamp", 20), cell("Input", 5),
		cell("Out", 5), cell("Skip", 4), "Quality")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 88))
	for _, run := range runs {
		fmt.Fprintf(os.Stdout, "%s  %s  %s  %s  %s  %.1f\n",
			cell(run.RunID, 36),
			cell(run.Timestamp.Format("2006-01-02 15:04:05"), 20),
			cell(fmt.Sprintf("%d", run.TotalInput), 5),
			cell(fmt.Sprintf("%d", run.Transformed), 5),
			cell(fmt.Sprintf("%d", run.Skipped), 4),
			run.AverageQuality)
	}
	fmt.Fprintf(os.Stdout, "\n%d runs\n", len(runs))
	return nil
}

func runStoreShow(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	events, err := s.RunEvents(context.Background(), args[0])
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return fmt.Errorf("no events recorded for run %s", args[0])
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(events)
	}

	fmt.Fprintf(os.Stdout, "%s  %s  %s  %s  %s  %s\n",
		cell("Event ID", 16), cell("Title", 36), cell("Date", 10),
		cell("Borough", 13), cell("Category", 14), "Quality")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 104))
	for _, ev := range events {
		fmt.Fprintf(os.Stdout, "%s  %s  %s  %s  %s  %.1f\n",
			cell(ev.EventID, 16), cell(ev.Title, 36), cell(ev.StartDate, 10),
			cell(ev.Borough, 13), cell(ev.PrimaryCategory, 14), ev.QualityScore)
	}
	fmt.Fprintf(os.Stdout, "\n%d events\n", len(events))
	return nil
}
