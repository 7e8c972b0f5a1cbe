package app

import (
	"log/slog"
	"os"

	"github.com/MidasLamb/banking-exercise/internal/ledger"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.ledger.enabled") {
		closer, err := ledger.New(ledger.Dependency{
			Config:    a.config,
			Router:    a.router,
			Goroutine: a.goroutine,
			Context:   a.ctx,
			ID:        a.uuid,
			EventID:   a.snowflake,
		})
		if err != nil {
			slog.Error("failed to init module ledger", "error", err)
			os.Exit(1)
		}
		if closer != nil {
			a.addCloser("Ledger", closer)
		}
	}
}
