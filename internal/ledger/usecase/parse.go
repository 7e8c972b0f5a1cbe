package usecase

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MidasLamb/banking-exercise/internal/ledger/entity"
)

var ErrMissingColumn = errors.New("missing required column")

type ParseStats struct {
	TotalLines int64
	ParsedOK   int64
	ParseErr   int64
}

type columns struct {
	typ    int
	client int
	tx     int
	amount int
}

// parseCSV reads a header row followed by event rows and hands every event to
// onEvent in input order. In strict mode the first malformed row aborts the
// read; otherwise it is counted and skipped. An error from onEvent always
// aborts.
func parseCSV(ctx context.Context, r io.Reader, strict bool, onEvent func(ev entity.Event) error) (ParseStats, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true
	reader.FieldsPerRecord = -1

	var stats ParseStats

	header, err := reader.Read()
	if err == io.EOF {
		return stats, nil
	}
	if err != nil {
		return stats, fmt.Errorf("read header: %w", err)
	}

	cols, err := parseHeader(header)
	if err != nil {
		return stats, err
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			stats.ParseErr++
			slog.WarnContext(ctx, "failed to read csv line", "error", err)
			return stats, err
		}

		stats.TotalLines++
		ev, err := parseRecord(record, cols)
		if err != nil {
			stats.ParseErr++
			if strict {
				return stats, fmt.Errorf("line %d: %w", stats.TotalLines+1, err)
			}
			slog.WarnContext(ctx, "failed to parse csv record", "line", stats.TotalLines+1, "error", err)
			continue
		}

		stats.ParsedOK++
		if err := onEvent(ev); err != nil {
			return stats, err
		}
	}

	return stats, nil
}

func parseHeader(header []string) (columns, error) {
	cols := columns{typ: -1, client: -1, tx: -1, amount: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "type":
			cols.typ = i
		case "client":
			cols.client = i
		case "tx":
			cols.tx = i
		case "amount":
			cols.amount = i
		}
	}

	switch {
	case cols.typ < 0:
		return cols, fmt.Errorf("%w: type", ErrMissingColumn)
	case cols.client < 0:
		return cols, fmt.Errorf("%w: client", ErrMissingColumn)
	case cols.tx < 0:
		return cols, fmt.Errorf("%w: tx", ErrMissingColumn)
	}

	return cols, nil
}

func parseRecord(record []string, cols columns) (entity.Event, error) {
	field := func(i int) string {
		if i < 0 || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	client, err := strconv.ParseUint(field(cols.client), 10, 16)
	if err != nil {
		return nil, fmt.Errorf("invalid client: %w", err)
	}

	tx, err := strconv.ParseUint(field(cols.tx), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid tx: %w", err)
	}

	switch typ := strings.ToLower(field(cols.typ)); typ {
	case string(entity.TxKindDeposit), string(entity.TxKindWithdrawal):
		amount, err := parseAmount(field(cols.amount))
		if err != nil {
			return nil, err
		}
		return entity.Transaction{
			Kind:   entity.TxKind(typ),
			Client: entity.ClientID(client),
			ID:     entity.TxID(tx),
			Amount: amount,
		}, nil
	case string(entity.ActionKindDispute), string(entity.ActionKindResolve), string(entity.ActionKindChargeback):
		return entity.DisputeAction{
			Kind:   entity.ActionKind(typ),
			Client: entity.ClientID(client),
			TxID:   entity.TxID(tx),
		}, nil
	default:
		return nil, fmt.Errorf("invalid event type: %q", typ)
	}
}

func parseAmount(value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Decimal{}, errors.New("amount is required")
	}

	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount: %w", err)
	}

	if amount.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("negative amount: %s", value)
	}

	return amount, nil
}
