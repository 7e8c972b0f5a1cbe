package app

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/MidasLamb/banking-exercise/internal/pkg/pkgconfig"
	"github.com/MidasLamb/banking-exercise/internal/pkg/pkglog"
	"github.com/MidasLamb/banking-exercise/internal/pkg/pkgrouter"
	"github.com/MidasLamb/banking-exercise/internal/pkg/pkgroutine"
	"github.com/MidasLamb/banking-exercise/internal/pkg/pkguid"
	"github.com/rs/cors"
)

// configDefaults apply when a key is missing from config.yaml.
var configDefaults = map[string]any{
	"tz":                        "UTC",
	"log.level":                 "info",
	"server.address.http":       ":8080",
	"server.shutdown_timeout":   "10s",
	"modules.ledger.enabled":    true,
	"ledger.strict":             false,
	"ledger.event.buffer":       512,
	"ledger.event.workers":      4,
	"ledger.event.max_retries":  3,
	"ledger.event.base_backoff": "200ms",
	"ledger.event.node_id":      -1,
	"goroutine.max":             100,
}

func (a *App) initConfig() {
	path := "/config/config.yaml"
	if os.Getenv("LOCAL") == "true" {
		path = "./config/config.yaml"
	}
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		path = p
	}

	cfg, err := pkgconfig.NewViper(path, configDefaults)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("tz"))

	pkglog.InitLogging(os.Stdout, pkglog.ParseLevel(cfg.GetString("log.level")))

	a.config = cfg
}

func (a *App) initLibraries() {
	a.goroutine = pkgroutine.NewManager(int(a.config.GetInt("goroutine.max")))
	a.uuid = pkguid.NewUUID()

	sf, err := pkguid.NewSnowflake(a.config.GetInt("ledger.event.node_id"))
	if err != nil {
		slog.Error("failed to init snowflake", "error", err)
		os.Exit(1)
	}
	a.snowflake = sf
}

func (a *App) initHTTPServer() {
	a.router = pkgrouter.NewRouter(a.uuid)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("server.address.http"),
		Handler:           corsHandler.Handler(a.router),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
