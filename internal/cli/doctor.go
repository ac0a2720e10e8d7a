package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/retoro-sen/offdroid-update-manager/internal/config"
	"github.com/retoro-sen/offdroid-update-manager/internal/executor"
	"github.com/retoro-sen/offdroid-update-manager/internal/history"
	"github.com/retoro-sen/offdroid-update-manager/internal/selfupdate"
	"github.com/retoro-sen/offdroid-update-manager/internal/ui"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose system issues",
	Long: `Check that offdroid can find a package manager, gain the privileges
it needs, read its configuration and history, and reach the release feed.

Examples:
  offdroid doctor               # Run diagnostics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		current.runDoctor(cmd.Context())
		return nil
	},
}

// versioner is implemented by the native drivers.
type versioner interface {
	Version(ctx context.Context) (string, error)
}

// runDoctor prints a diagnostic report and returns the number of issues found.
func (a *app) runDoctor(ctx context.Context) int {
	issues := 0

	ui.HeaderMsg("Running diagnostics...")

	// System
	if sysInfo := a.registry.SystemInfo(); sysInfo == nil || sysInfo.PrettyName == "" {
		ui.WarningMsg("Could not identify the operating system")
	} else {
		ui.SuccessMsg("System detected: %s (%s)", sysInfo.PrettyName, sysInfo.Arch)
	}

	// Package manager
	native := a.registry.Native()
	if native == nil {
		ui.ErrorMsg("No supported package manager found (apt, zypper, dnf, pacman, or brew)")
		issues++
	} else {
		ui.SuccessMsg("Package manager: %s", native.DisplayName())
		if v, ok := native.(versioner); ok {
			if version, err := v.Version(ctx); err == nil && version != "" {
				ui.MutedMsg("  %s", version)
			}
		}

		if err := executor.CheckPrivileges(native.NeedsSudo()); err != nil {
			ui.ErrorMsg("%v", err)
			issues++
		} else if native.NeedsSudo() {
			ui.SuccessMsg("Elevated privileges available")
		}
	}

	// Configuration
	ui.HeaderMsg("Configuration")
	path := cfgFile
	if path == "" {
		path = config.ConfigPath()
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		ui.MutedMsg("  No config file at %s, using defaults", path)
	} else if _, err := config.LoadFrom(path); err != nil {
		ui.ErrorMsg("%v", err)
		issues++
	} else {
		ui.SuccessMsg("Config file: %s", path)
	}

	if a.cfg.General.RecordHistory {
		store, err := history.Open(a.historyPath)
		if err != nil {
			ui.ErrorMsg("History unavailable: %v", err)
			issues++
		} else {
			n, _ := store.Count()
			last, _ := store.Last()
			store.Close()
			ui.SuccessMsg("History: %d entries in %s", n, a.historyPath)
			if last != nil {
				ui.MutedMsg("  Last run: %s", last.Summary())
			}
		}
	}

	// Release feed
	ui.HeaderMsg("Self-update")
	if a.updater == nil {
		ui.MutedMsg("  Self-update is disabled")
	} else {
		ui.MutedMsg("  Release feed: %s", a.updater.Repository())
		check, err := ui.Spin("Checking release feed...", func() (*selfupdate.Check, error) {
			return a.updater.Check(ctx)
		})
		switch {
		case err != nil:
			ui.WarningMsg("Release feed: %v", err)
			issues++
		case check.Newer:
			ui.InfoMsg("Version %s is available (running %s)", check.Latest, check.Current)
		default:
			ui.SuccessMsg("Running the latest version (%s)", check.Current)
		}
	}

	// Summary
	ui.HeaderMsg("Summary")
	if issues == 0 {
		ui.SuccessMsg("No issues found! offdroid is ready to use.")
	} else {
		ui.WarningMsg("Found %d issue(s). Some features may not work correctly.", issues)
	}
	return issues
}
