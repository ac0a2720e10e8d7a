// Package cli implements the command-line interface for offdroid.
package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/retoro-sen/offdroid-update-manager/internal/config"
	"github.com/retoro-sen/offdroid-update-manager/internal/executor"
	"github.com/retoro-sen/offdroid-update-manager/internal/logging"
	"github.com/retoro-sen/offdroid-update-manager/internal/ui"
	"github.com/retoro-sen/offdroid-update-manager/pkg/manager"
	"github.com/retoro-sen/offdroid-update-manager/pkg/manager/native"
)

var (
	// Global flags
	cfgFile        string
	dryRun         bool
	yes            bool
	verbose        bool
	noColor        bool
	writeChangelog bool
	skipSelfUpdate bool

	// Global state
	current *app
)

// Build metadata - set at build time via ldflags
var (
	Version   = "1.0.0"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "offdroid",
	Short: "Update every package on this system with one command",
	Long: `offdroid detects the system package manager, refreshes it, upgrades
every installed package and lists what changed. Before that it checks
GitHub for a newer offdroid and offers to install it.

Supported package managers, in detection order:
  apt-get, zypper, dnf, pacman, brew

Examples:
  offdroid                      # Check for a new offdroid, then update
  offdroid -y                   # Same, without asking
  offdroid --skip-self-update   # Only update packages
  offdroid history              # Show past runs`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeApp()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return current.runDefault(cmd.Context())
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "show what would happen without executing")
	rootCmd.PersistentFlags().BoolVarP(&yes, "yes", "y", false, "assume yes to all prompts")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&writeChangelog, "changelog", false, "write the updated packages to a changelog file")
	rootCmd.PersistentFlags().BoolVar(&skipSelfUpdate, "skip-self-update", false, "do not check for a newer offdroid")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(selfUpdateCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(systemCmd)
	rootCmd.AddCommand(doctorCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

// initializeApp sets up the application state.
func initializeApp() error {
	// Load configuration
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	// Apply global flag overrides
	if yes {
		cfg.General.AutoConfirm = true
	}
	if dryRun {
		cfg.General.DryRun = true
	}
	if verbose {
		cfg.Output.Verbose = true
	}
	if noColor {
		cfg.Output.Color = false
	}
	if writeChangelog {
		cfg.General.WriteChangelog = true
	}
	if skipSelfUpdate {
		cfg.SelfUpdate.Enabled = false
	}

	ui.Init(cfg.ShouldUseColor(), cfg.Output.Unicode)
	logging.Init(cfg.Output.Verbose)

	current = newApp(cfg)
	return nil
}

// newApp wires the registry, confirmation provider and self-updater for cfg.
func newApp(cfg *config.Config) *app {
	a := &app{
		cfg:         cfg,
		logger:      logging.Logger(),
		historyPath: config.HistoryPath(),
	}

	if cfg.General.AutoConfirm {
		a.confirm = ui.FixedConfirmer(true)
	} else {
		a.confirm = ui.PromptConfirmer{Stdin: os.Stdin, Stdout: os.Stdout}
	}

	runner := executor.New(
		executor.WithDryRun(cfg.General.DryRun),
		executor.WithVerbose(cfg.Output.Verbose),
		executor.WithLogger(a.logger),
	)
	a.registry = manager.NewRegistry()
	for _, d := range native.NewAll(runner) {
		d.SetNotify(notifyCommand)
		a.registry.Register(d)
	}
	a.selectManager()

	a.updater = a.newUpdater(cfg)
	return a
}

// selectManager detects the host package manager and applies the
// general.manager override when one is configured.
func (a *app) selectManager() {
	if err := a.registry.Detect(); err != nil {
		a.logger.Debug("package manager detection", "err", err)
	}
	if a.cfg.General.Manager == "" {
		return
	}

	kind, err := manager.ParseKind(a.cfg.General.Manager)
	if err == nil {
		err = a.registry.Select(kind)
	}
	if err != nil {
		a.logger.Warn("ignoring general.manager", "manager", a.cfg.General.Manager, "err", err)
		return
	}
	a.logger.Debug("package manager forced by config", "manager", kind)
}

// runDefault offers a self-update first and then runs the package update.
// Nothing that happens in the self-update branch changes the update's outcome.
func (a *app) runDefault(ctx context.Context) error {
	if a.updater != nil {
		a.runSelfUpdate(ctx)
		ui.Println("")
	}
	return a.runUpdate(ctx)
}

// Version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print offdroid version",
	Run: func(cmd *cobra.Command, args []string) {
		ui.InfoMsg("offdroid version %s", Version)
		if Commit != "unknown" {
			ui.MutedMsg("  Commit: %s", Commit)
		}
		if BuildTime != "unknown" {
			ui.MutedMsg("  Built:  %s", BuildTime)
		}
	},
}
