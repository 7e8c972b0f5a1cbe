package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/MidasLamb/banking-exercise/internal/ledger/event"
	"github.com/MidasLamb/banking-exercise/internal/ledger/store"
	"github.com/MidasLamb/banking-exercise/internal/ledger/usecase"
	"github.com/MidasLamb/banking-exercise/internal/pkg/pkguid"
)

var ErrUsage = errors.New("usage: banking-exercise <file.csv> [--format csv|table]")

// ParseBatchArgs reads the command line of batch mode. Flags may appear
// before or after the file argument.
func ParseBatchArgs(args []string) (string, usecase.ReportFormat, error) {
	fs := flag.NewFlagSet("banking-exercise", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	formatFlag := fs.String("format", string(usecase.ReportFormatCSV), "report format: csv or table")

	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return "", "", fmt.Errorf("%w: %v", ErrUsage, err)
		}
		rest := fs.Args()
		if len(rest) == 0 {
			break
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}

	if len(positional) != 1 {
		return "", "", ErrUsage
	}

	format, err := usecase.ParseReportFormat(*formatFlag)
	if err != nil {
		return "", "", err
	}

	return positional[0], format, nil
}

// RunBatch applies every event of the CSV file at path, aborting on the first
// malformed row, and writes the account report to w.
func RunBatch(ctx context.Context, path string, format usecase.ReportFormat, w io.Writer) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	eventID, err := pkguid.NewSnowflake(-1)
	if err != nil {
		return fmt.Errorf("init snowflake: %w", err)
	}

	bus := event.NewBus(64)
	consumer := event.NewLockConsumer(bus, event.LogNotifier{}, event.ConsumerConfig{Workers: 1})
	consumer.Start()
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := consumer.Stop(stopCtx); err != nil {
			slog.WarnContext(ctx, "lock consumer did not drain", "error", err)
		}
	}()

	registry := store.NewRegistry()
	uc := usecase.New(usecase.Dependency{
		Store:   store.NewBatchStore(),
		Ledger:  registry,
		Events:  bus,
		ID:      pkguid.NewUUID(),
		EventID: eventID,
		Strict:  true,
		RootCtx: ctx,
	})

	if _, err := uc.Run(ctx, file); err != nil {
		return err
	}

	return usecase.WriteReport(w, format, registry.SnapshotAll())
}
