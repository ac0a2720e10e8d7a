package cli

import (
	"github.com/spf13/cobra"

	"github.com/retoro-sen/offdroid-update-manager/internal/ui"
	"github.com/retoro-sen/offdroid-update-manager/pkg/manager"
)

var systemCmd = &cobra.Command{
	Use:   "system",
	Short: "Show system information",
	Long: `Display information about the detected system, the package
manager offdroid would use, and every manager it supports.

Examples:
  offdroid system               # Show system info`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return current.runSystem()
	},
}

func (a *app) runSystem() error {
	sysInfo := a.registry.SystemInfo()
	if sysInfo == nil {
		ui.WarningMsg("System information not available")
		return nil
	}

	native := a.registry.Native()
	selected := ""
	if native != nil {
		selected = native.DisplayName()
	}

	available := a.registry.Available()
	names := make([]string, len(available))
	for i, mgr := range available {
		names[i] = string(mgr.Kind())
	}

	prettyName := sysInfo.PrettyName
	if prettyName == "" {
		prettyName = string(sysInfo.OS)
	}
	ui.PrintSystemInfo(prettyName, sysInfo.Arch, sysInfo.Distribution, selected, names)

	if expected := sysInfo.ExpectedManager(); native != nil && expected != "" && expected != string(native.Kind()) {
		ui.MutedMsg("  Note: %s usually ships %s", prettyName, expected)
	}

	ui.HeaderMsg("Supported Managers")
	installed := make(map[manager.Kind]bool, len(available))
	for _, mgr := range available {
		installed[mgr.Kind()] = true
	}
	table := ui.NewTable("manager", "binary", "status")
	for _, mgr := range a.registry.All() {
		status := "not installed"
		switch {
		case native != nil && mgr.Kind() == native.Kind():
			status = "selected"
		case installed[mgr.Kind()]:
			status = "installed"
		}
		table.AddRow(string(mgr.Kind()), mgr.Kind().Binary(), status)
	}
	return table.Render()
}
