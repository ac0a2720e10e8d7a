package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/retoro-sen/offdroid-update-manager/internal/config"
	"github.com/retoro-sen/offdroid-update-manager/internal/history"
	"github.com/retoro-sen/offdroid-update-manager/internal/selfupdate"
	"github.com/retoro-sen/offdroid-update-manager/internal/ui"
)

var selfUpdateCmd = &cobra.Command{
	Use:     "self-update",
	Aliases: []string{"selfupdate", "update-self"},
	Short:   "Update offdroid to the latest release",
	Long: `Check the GitHub release feed for a newer offdroid and, after
confirmation, download it, back up the current files into
backup_<version> next to the executable and install the new ones.

Examples:
  offdroid self-update              # Check and offer an update
  offdroid self-update -y           # Install a newer release without asking
  offdroid self-update --dry-run    # Only report what would happen`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if current.updater == nil {
			return ErrSelfUpdateDisabled
		}
		res := current.runSelfUpdate(cmd.Context())
		switch res.State {
		case selfupdate.StateFailed, selfupdate.StateUnreachable:
			return fmt.Errorf("%w: %w", ErrReported, res.Err)
		}
		return nil
	},
}

// newUpdater builds the self-updater from the config, or returns nil when
// self-update is disabled.
func (a *app) newUpdater(cfg *config.Config) *selfupdate.Updater {
	su := cfg.SelfUpdate
	if !su.Enabled {
		return nil
	}

	client := selfupdate.NewClient(
		selfupdate.WithBaseURL(su.APIURL),
		selfupdate.WithRepo(su.Owner, su.Repo),
		selfupdate.WithArchive(su.Archive),
		selfupdate.WithUserAgent("offdroid/"+Version),
		selfupdate.WithToken(os.Getenv("GITHUB_TOKEN")),
	)

	var bar *ui.ProgressBar
	opts := []selfupdate.UpdaterOption{
		selfupdate.WithClient(client),
		selfupdate.WithConfirmer(a.confirm),
		selfupdate.WithLogger(a.logger),
		selfupdate.WithTimeouts(su.CheckTimeout.Std(), su.DownloadTimeout.Std()),
		selfupdate.WithDryRun(cfg.General.DryRun),
		selfupdate.WithProgress(func(done, total int64) {
			if bar == nil {
				bar = ui.NewProgressBar(ui.Output(), "Downloading")
			}
			bar.Update(done, total)
		}),
		selfupdate.WithStateHook(func(s selfupdate.State, res *selfupdate.Result) {
			if s != selfupdate.StateDownloading && bar != nil {
				bar.Done()
				bar = nil
			}
			if s == selfupdate.StateRestarting {
				a.recordSelfUpdate(res, nil)
			}
		}),
	}

	install, err := selfupdate.ResolveInstallation(su.InstallDir, su.ManagedFiles, su.ManagedDir)
	if err != nil {
		a.logger.Warn("could not resolve installation", "err", err)
	} else {
		opts = append(opts, selfupdate.WithInstallation(install))
	}

	return selfupdate.NewUpdater(Version, opts...)
}

// runSelfUpdate runs the self-update flow. On success the updater ends the
// process; every other outcome returns so the caller can continue.
func (a *app) runSelfUpdate(ctx context.Context) *selfupdate.Result {
	res := a.updater.Run(ctx)
	if res.State == selfupdate.StateFailed {
		a.recordSelfUpdate(res, res.Err)
	}
	return res
}

func (a *app) recordSelfUpdate(res *selfupdate.Result, err error) {
	entry := history.NewEntry(history.OpSelfUpdate, "")
	entry.FromVersion = Version
	if res.Latest != nil {
		entry.ToVersion = res.Latest.String()
	}
	if err != nil {
		entry.MarkFailed(err)
	} else {
		entry.MarkSuccess(nil)
	}
	a.record(entry)
}
