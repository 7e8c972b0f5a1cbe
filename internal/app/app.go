package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/MidasLamb/banking-exercise/internal/pkg/pkgconfig"
	"github.com/MidasLamb/banking-exercise/internal/pkg/pkglog"
	"github.com/MidasLamb/banking-exercise/internal/pkg/pkgrouter"
	"github.com/MidasLamb/banking-exercise/internal/pkg/pkgroutine"
	"github.com/MidasLamb/banking-exercise/internal/pkg/pkguid"
)

// App is the long-running HTTP mode of the service.
type App struct {
	// ctx is the parent of background batch work; it ends last on shutdown.
	ctx    context.Context
	cancel context.CancelFunc

	config pkgconfig.Config

	uuid      pkguid.StringID
	snowflake pkguid.NumberID
	goroutine *pkgroutine.Manager

	router     *pkgrouter.Router
	httpServer *http.Server

	closers []closer
}

type closer struct {
	name  string
	close func(context.Context) error
}

// New wires the application from config and exits the process when any part
// fails to start.
func New() *App {
	pkglog.InitLogging(os.Stdout, slog.LevelInfo)

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initLibraries()
	app.initHTTPServer()
	app.initModules()

	return app
}

func (a *App) addCloser(name string, fn func(context.Context) error) {
	a.closers = append(a.closers, closer{name: name, close: fn})
}
