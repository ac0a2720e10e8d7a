// Package selfupdate checks the GitHub release feed for a newer offdroid and
// installs it in place of the running copy.
package selfupdate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/retoro-sen/offdroid-update-manager/internal/logging"
	"github.com/retoro-sen/offdroid-update-manager/internal/ui"
)

// State is a step of the self-update flow.
type State int

const (
	StateCheckRemote State = iota
	StateUpToDate
	StateUnreachable
	StateUpdateOffered
	StateDeclined
	StateDownloading
	StateExtracting
	StateBackingUp
	StateReplacing
	StateRestarting
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateCheckRemote:
		return "check-remote"
	case StateUpToDate:
		return "up-to-date"
	case StateUnreachable:
		return "unreachable"
	case StateUpdateOffered:
		return "update-offered"
	case StateDeclined:
		return "declined"
	case StateDownloading:
		return "downloading"
	case StateExtracting:
		return "extracting"
	case StateBackingUp:
		return "backing-up"
	case StateReplacing:
		return "replacing"
	case StateRestarting:
		return "restarting"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

const (
	DefaultCheckTimeout    = 5 * time.Second
	DefaultDownloadTimeout = 30 * time.Second
)

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// Check is the outcome of comparing the running version against the feed.
type Check struct {
	Current VersionTuple
	Latest  VersionTuple
	Release *ReleaseInfo
	Newer   bool
}

// Result summarizes a Run.
type Result struct {
	State     State
	Current   VersionTuple
	Latest    VersionTuple
	Release   *ReleaseInfo
	BackupDir string
	ManualURL string
	Err       error
}

// Updater runs the self-update flow for one installed copy of offdroid.
type Updater struct {
	current         string
	client          *Client
	install         *Installation
	confirm         Confirmer
	progress        ProgressFunc
	onState         func(State, *Result)
	exit            func(int)
	logger          *log.Logger
	workDir         string
	checkTimeout    time.Duration
	downloadTimeout time.Duration
	dryRun          bool
}

// UpdaterOption configures an Updater.
type UpdaterOption func(*Updater)

// WithClient sets the release feed client.
func WithClient(c *Client) UpdaterOption {
	return func(u *Updater) { u.client = c }
}

// WithInstallation sets the installation that gets replaced.
func WithInstallation(in *Installation) UpdaterOption {
	return func(u *Updater) { u.install = in }
}

// WithConfirmer sets how consent for an update is obtained.
func WithConfirmer(c Confirmer) UpdaterOption {
	return func(u *Updater) { u.confirm = c }
}

// WithProgress receives download progress.
func WithProgress(fn ProgressFunc) UpdaterOption {
	return func(u *Updater) { u.progress = fn }
}

// WithStateHook is called on every state transition with the result so far.
func WithStateHook(fn func(State, *Result)) UpdaterOption {
	return func(u *Updater) { u.onState = fn }
}

// WithExit replaces os.Exit for the final restart step.
func WithExit(fn func(int)) UpdaterOption {
	return func(u *Updater) { u.exit = fn }
}

// WithLogger sets the logger for diagnostics.
func WithLogger(l *log.Logger) UpdaterOption {
	return func(u *Updater) { u.logger = l }
}

// WithWorkDir sets where the archive is downloaded and extracted.
func WithWorkDir(dir string) UpdaterOption {
	return func(u *Updater) { u.workDir = dir }
}

// WithTimeouts sets the release check and download timeouts. Zero keeps the default.
func WithTimeouts(check, download time.Duration) UpdaterOption {
	return func(u *Updater) {
		if check > 0 {
			u.checkTimeout = check
		}
		if download > 0 {
			u.downloadTimeout = download
		}
	}
}

// WithDryRun stops after consent without touching the installation.
func WithDryRun(dryRun bool) UpdaterOption {
	return func(u *Updater) { u.dryRun = dryRun }
}

// NewUpdater creates an Updater for the given running version.
func NewUpdater(current string, opts ...UpdaterOption) *Updater {
	u := &Updater{
		current:         current,
		exit:            os.Exit,
		checkTimeout:    DefaultCheckTimeout,
		downloadTimeout: DefaultDownloadTimeout,
	}
	for _, opt := range opts {
		opt(u)
	}
	if u.client == nil {
		u.client = NewClient()
	}
	if u.logger == nil {
		u.logger = logging.Logger()
	}
	return u
}

// Repository returns the owner/repo whose releases are checked.
func (u *Updater) Repository() string {
	return u.client.Owner() + "/" + u.client.Repo()
}

// ManualURL is where users can download the latest release themselves.
func (u *Updater) ManualURL() string {
	return u.client.ManualURL()
}

// Check asks the feed for the latest release and compares it with the running
// version. Feed failures and unparseable tags are reported as *UnreachableError.
func (u *Updater) Check(ctx context.Context) (*Check, error) {
	current, err := ParseVersion(u.current)
	if err != nil {
		return nil, fmt.Errorf("current version: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, u.checkTimeout)
	defer cancel()

	release, err := u.client.LatestRelease(ctx)
	if err != nil {
		return nil, err
	}

	latest, err := ParseVersion(release.TagName)
	if err != nil {
		return nil, &UnreachableError{URL: release.HTMLURL, Err: err}
	}

	return &Check{
		Current: current,
		Latest:  latest,
		Release: release,
		Newer:   latest.Newer(current),
	}, nil
}

// Run executes the whole flow: check, offer, and on consent download, extract,
// back up, replace and restart. It never returns an error; failures are
// reported and recorded in the Result so the caller can carry on.
func (u *Updater) Run(ctx context.Context) *Result {
	res := &Result{ManualURL: u.ManualURL()}

	u.transition(res, StateCheckRemote)
	check, err := ui.Spin("Checking for offdroid updates...", func() (*Check, error) {
		return u.Check(ctx)
	})
	if err != nil {
		res.Err = err
		if errors.Is(err, ErrUnreachable) {
			u.logger.Warn("self-update check failed", "err", err)
			ui.WarningMsg("Could not check for updates: %v", err)
			u.transition(res, StateUnreachable)
			return res
		}
		ui.ErrorMsg("Self-update failed: %v", err)
		u.transition(res, StateFailed)
		return res
	}

	res.Current, res.Latest, res.Release = check.Current, check.Latest, check.Release
	if !check.Newer {
		ui.SuccessMsg("offdroid is up to date (%s)", check.Current)
		u.transition(res, StateUpToDate)
		return res
	}

	u.transition(res, StateUpdateOffered)
	ui.InfoMsg("New version available: %s (current: %s)", check.Latest, check.Current)
	if notes := strings.TrimSpace(check.Release.Body); notes != "" {
		ui.HeaderMsg("Release notes")
		ui.Println("%s", notes)
	}

	ok, err := u.consent(fmt.Sprintf("Do you want to update to version %s?", check.Latest))
	if err != nil || !ok {
		if err != nil {
			u.logger.Debug("confirmation failed", "err", err)
		}
		ui.MutedMsg("Self-update skipped.")
		u.transition(res, StateDeclined)
		return res
	}

	if u.dryRun {
		ui.InfoMsg("[dry-run] Would download %s", check.Release.ArchiveURL)
		return res
	}

	if err := u.Apply(ctx, check.Release, res); err != nil {
		res.Err = err
		ui.ErrorMsg("Self-update failed: %v", err)
		ui.MutedMsg("  Download the latest version manually: %s", res.ManualURL)
		u.transition(res, StateFailed)
	}
	return res
}

// Apply downloads and installs release over the current installation. res,
// when non-nil, receives state transitions and the backup location.
func (u *Updater) Apply(ctx context.Context, release *ReleaseInfo, res *Result) error {
	if release == nil || release.ArchiveURL == "" {
		return errors.New("release has no archive to download")
	}
	if res == nil {
		res = &Result{ManualURL: u.ManualURL()}
	}

	install := u.install
	if install == nil {
		var err error
		install, err = ResolveInstallation("", []string{"", "README.md", "LICENSE"}, "share")
		if err != nil {
			return err
		}
	}

	u.transition(res, StateDownloading)
	dlCtx, cancel := context.WithTimeout(ctx, u.downloadTimeout)
	defer cancel()
	archive, err := u.client.Download(dlCtx, release.ArchiveURL, u.workDir, u.progress)
	if err != nil {
		return err
	}
	defer os.Remove(archive)

	u.transition(res, StateExtracting)
	tmpDir, root, err := Extract(archive, u.workDir)
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmpDir)

	u.transition(res, StateBackingUp)
	backupDir, err := install.Backup(u.current)
	if err != nil {
		return err
	}
	res.BackupDir = backupDir
	ui.MutedMsg("  Backup created at %s", backupDir)

	u.transition(res, StateReplacing)
	if err := install.Replace(root); err != nil {
		u.logger.Error("replacing files failed, restoring backup", "err", err)
		if restoreErr := install.Restore(backupDir); restoreErr != nil {
			return fmt.Errorf("%w (restore failed: %v, backup kept at %s)", err, restoreErr, backupDir)
		}
		return fmt.Errorf("%w (previous version restored from %s)", err, backupDir)
	}

	u.transition(res, StateRestarting)
	_ = os.Remove(archive)
	_ = os.RemoveAll(tmpDir)
	ui.SuccessMsg("offdroid updated to %s", release.TagName)
	ui.InfoMsg("Please restart offdroid to use the new version.")
	u.exit(0)
	return nil
}

func (u *Updater) consent(prompt string) (bool, error) {
	if u.confirm == nil {
		return false, nil
	}
	return u.confirm.Confirm(prompt)
}

func (u *Updater) transition(res *Result, s State) {
	res.State = s
	u.logger.Debug("self-update", "state", s)
	if u.onState != nil {
		u.onState(s, res)
	}
}
