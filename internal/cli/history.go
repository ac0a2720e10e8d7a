package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/retoro-sen/offdroid-update-manager/internal/history"
	"github.com/retoro-sen/offdroid-update-manager/internal/ui"
)

var (
	historyLimit  int
	historyOutput string
	historyClear  bool
	historyPrune  time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history [id]",
	Short: "Show past update runs",
	Long: `Display the runs recorded by offdroid: which package manager was
used, which packages changed and whether the run succeeded.

Examples:
  offdroid history              # Show recent runs
  offdroid history -l 20        # Show the last 20 runs
  offdroid history -o json      # Machine-readable output
  offdroid history 3f2a9c1d     # Show a single run
  offdroid history --prune 720h # Drop runs older than 30 days`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 10, "number of entries to show")
	historyCmd.Flags().StringVarP(&historyOutput, "output", "o", "text", "output format: text, json or yaml")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "delete every entry")
	historyCmd.Flags().DurationVar(&historyPrune, "prune", 0, "delete entries older than the given age")
}

func runHistory(cmd *cobra.Command, args []string) error {
	switch historyOutput {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", historyOutput)
	}

	store, err := history.Open(current.historyPath)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	switch {
	case historyClear:
		if err := store.Clear(); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		ui.SuccessMsg("History cleared")
		return nil
	case historyPrune > 0:
		n, err := store.Prune(historyPrune)
		if err != nil {
			return fmt.Errorf("failed to prune history: %w", err)
		}
		ui.SuccessMsg("Removed %d entries older than %s", n, historyPrune)
		return nil
	}

	var entries []history.Entry
	if len(args) == 1 {
		entry, err := store.Get(args[0])
		if err != nil {
			return err
		}
		entries = []history.Entry{*entry}
	} else {
		entries, err = store.List(historyLimit)
		if err != nil {
			return fmt.Errorf("failed to read history: %w", err)
		}
	}

	if historyOutput != "text" {
		return writeEntries(ui.Output(), entries, historyOutput)
	}

	if len(entries) == 0 {
		ui.MutedMsg("No history entries found")
		return nil
	}

	ui.HeaderMsg("Run History")
	if len(args) == 1 {
		printEntryDetail(&entries[0])
		return nil
	}
	if err := writeEntries(ui.Output(), entries, "text"); err != nil {
		return err
	}

	total, _ := store.Count()
	ui.MutedMsg("\nShowing %d of %d total entries", len(entries), total)
	return nil
}

// writeEntries renders entries as a table, JSON or YAML.
func writeEntries(w io.Writer, entries []history.Entry, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return enc.Close()
	case "text":
		table := ui.NewTableWriter(w, "id", "time", "operation", "manager", "packages", "status")
		for i := range entries {
			e := &entries[i]
			table.AddRow(e.ShortID(), e.FormatTime(), string(e.Operation), describeTarget(e), formatPackages(e.Packages), e.Status())
		}
		return table.Render()
	}
	return errors.New("unknown output format: " + format)
}

func printEntryDetail(e *history.Entry) {
	ui.PrintField("ID", e.ID)
	ui.PrintField("Time", e.FormatTime())
	ui.PrintField("Operation", string(e.Operation))
	ui.PrintField("Target", describeTarget(e))
	ui.PrintField("Status", e.Status())
	if e.Error != "" {
		ui.PrintField("Error", e.Error)
	}
	for _, pkg := range e.Packages {
		ui.Println("    %s %s", ui.SymbolBullet, pkg)
	}
}

func describeTarget(e *history.Entry) string {
	if e.Operation == history.OpSelfUpdate {
		return e.FromVersion + " -> " + e.ToVersion
	}
	return e.Manager
}

// formatPackages formats a list of packages for display.
func formatPackages(packages []string) string {
	switch {
	case len(packages) == 0:
		return "-"
	case len(packages) <= 3:
		return strings.Join(packages, ", ")
	}
	return fmt.Sprintf("%s (+%d more)", packages[0], len(packages)-1)
}
