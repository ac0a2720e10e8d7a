package main

import (
	"errors"
	"os"

	"github.com/retoro-sen/offdroid-update-manager/internal/cli"
	"github.com/retoro-sen/offdroid-update-manager/internal/ui"
)

func main() {
	if err := cli.Execute(); err != nil {
		if !errors.Is(err, cli.ErrReported) {
			ui.ErrorMsg("%v", err)
		}
		os.Exit(1)
	}
}
