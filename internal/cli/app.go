package cli

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/retoro-sen/offdroid-update-manager/internal/config"
	"github.com/retoro-sen/offdroid-update-manager/internal/history"
	"github.com/retoro-sen/offdroid-update-manager/internal/selfupdate"
	"github.com/retoro-sen/offdroid-update-manager/internal/ui"
	"github.com/retoro-sen/offdroid-update-manager/pkg/manager"
)

// app bundles everything the update and self-update flows depend on.
type app struct {
	cfg         *config.Config
	registry    *manager.Registry
	confirm     ui.Confirmer
	updater     *selfupdate.Updater
	logger      *log.Logger
	historyPath string
	now         func() time.Time
}

// record stores entry in the history database. Failures are logged and
// never change the outcome of a run.
func (a *app) record(entry *history.Entry) {
	if !a.cfg.General.RecordHistory || a.historyPath == "" {
		return
	}

	store, err := history.Open(a.historyPath)
	if err != nil {
		a.logger.Warn("could not open history", "err", err)
		return
	}
	defer store.Close()

	if err := store.Record(entry); err != nil {
		a.logger.Warn("could not record history", "err", err)
	}
}

func (a *app) clock() time.Time {
	if a.now != nil {
		return a.now()
	}
	return time.Now()
}
