package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/MidasLamb/banking-exercise/internal/app"
	"github.com/MidasLamb/banking-exercise/internal/pkg/pkglog"
)

func main() {
	if len(os.Args) > 1 {
		os.Exit(runBatch(os.Args[1:]))
	}

	if err := app.New().Run(context.Background()); err != nil {
		os.Exit(1)
	}
}

// runBatch applies one CSV file and prints the account report. stdout only
// ever carries the report; logs go to stderr.
func runBatch(args []string) int {
	pkglog.InitLogging(os.Stderr, pkglog.ParseLevel(os.Getenv("LOG_LEVEL")))

	path, format, err := app.ParseBatchArgs(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := app.RunBatch(context.Background(), path, format, os.Stdout); err != nil {
		slog.Error("batch failed", "path", path, "error", err)
		return 1
	}

	return 0
}
