package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/retoro-sen/offdroid-update-manager/internal/changelog"
	"github.com/retoro-sen/offdroid-update-manager/internal/history"
	"github.com/retoro-sen/offdroid-update-manager/internal/ui"
	"github.com/retoro-sen/offdroid-update-manager/pkg/manager"
	"github.com/retoro-sen/offdroid-update-manager/pkg/manager/native"
)

const updatePrompt = "Do you want to search for and install updates?"

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Refresh and upgrade every installed package",
	Long: `Detect the system package manager, refresh its metadata and upgrade
every installed package, then list the packages that changed.

Supported package managers, in detection order:
  apt-get, zypper, dnf, pacman, brew

Examples:
  offdroid update               # Update after confirmation
  offdroid update -y            # Update without asking
  offdroid update --changelog   # Also write a changelog file`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return current.runUpdate(cmd.Context())
	},
}

// greetings are printed before the refresh step.
var greetings = map[manager.Kind]string{
	manager.KindZypper: "Oh, an openSUSE user. ",
	manager.KindPacman: "Oh, an Arch user. ",
	manager.KindBrew:   "Oh, a Mac user. ",
}

// runUpdate asks for confirmation, refreshes and upgrades through the
// detected manager, and reports the packages that changed.
func (a *app) runUpdate(ctx context.Context) error {
	mgr := a.registry.Native()
	if mgr == nil {
		ui.InfoMsg("Checking package manager...")
		return manager.ErrNoSupportedManager
	}

	ok, err := a.confirm.Confirm(updatePrompt)
	if err != nil {
		return err
	}
	if !ok {
		ui.MutedMsg("Aborted by user.")
		return nil
	}

	entry := history.NewEntry(history.OpUpdate, string(mgr.Kind()))
	entry.DryRun = a.cfg.General.DryRun

	ui.InfoMsg("%sStarting %s update...", greetings[mgr.Kind()], mgr.Kind())
	res, err := native.Drive(ctx, mgr)
	if err != nil {
		entry.MarkFailed(err)
		a.record(entry)
		reportDriveError(err)
		return fmt.Errorf("update failed: %w", err)
	}

	entry.MarkSuccess(res.Packages)
	a.record(entry)

	ui.Println("")
	ui.SuccessMsg("Updates were successfully installed!")
	ui.PrintReport(fmt.Sprintf("Updated packages (%d)", res.Packages.Len()), res.Packages)

	if a.cfg.General.WriteChangelog && !res.Packages.Empty() && !a.cfg.General.DryRun {
		report := changelog.NewReport(res.Packages)
		report.Date = a.clock()
		path, err := changelog.Write(a.cfg.ChangelogDirectory(), a.cfg.General.ChangelogPrefix, report)
		if err != nil {
			ui.WarningMsg("Could not write changelog: %v", err)
		} else {
			ui.InfoMsg("Changelog saved to %s", path)
		}
	}

	return nil
}

func reportDriveError(err error) {
	ui.ErrorMsg("There was a problem installing the updates.")

	var cmdErr *native.CommandError
	if !errors.As(err, &cmdErr) {
		return
	}
	if stderr := strings.TrimSpace(cmdErr.Stderr); stderr != "" {
		ui.Println("%s", stderr)
	}
	if cmdErr.Suggestion != "" {
		ui.MutedMsg("  Hint: %s", cmdErr.Suggestion)
	}
}

// notifyCommand prints each external command before it runs.
func notifyCommand(command string) {
	ui.MutedMsg("$ %s", command)
}
