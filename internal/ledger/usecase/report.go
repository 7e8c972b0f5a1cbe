package usecase

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/MidasLamb/banking-exercise/internal/ledger/entity"
)

type ReportFormat string

const (
	ReportFormatCSV   ReportFormat = "csv"
	ReportFormatTable ReportFormat = "table"
)

var reportHeader = []string{"client", "available", "held", "total", "locked"}

func ParseReportFormat(value string) (ReportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(ReportFormatCSV):
		return ReportFormatCSV, nil
	case string(ReportFormatTable):
		return ReportFormatTable, nil
	default:
		return "", fmt.Errorf("invalid report format: %s", value)
	}
}

// WriteReport renders one row per account. Decimals are printed without
// trailing zeros, so an empty balance is "0".
func WriteReport(w io.Writer, format ReportFormat, views []entity.AccountView) error {
	switch format {
	case ReportFormatCSV:
		return writeCSV(w, views)
	case ReportFormatTable:
		writeTable(w, views)
		return nil
	default:
		return fmt.Errorf("invalid report format: %s", format)
	}
}

func writeCSV(w io.Writer, views []entity.AccountView) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(reportHeader); err != nil {
		return err
	}

	for _, view := range views {
		if err := writer.Write(reportRow(view)); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func writeTable(w io.Writer, views []entity.AccountView) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(reportHeader)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for _, view := range views {
		table.Append(reportRow(view))
	}

	table.Render()
}

func reportRow(view entity.AccountView) []string {
	return []string{
		strconv.FormatUint(uint64(view.Client), 10),
		view.Available.String(),
		view.Held.String(),
		view.Total.String(),
		strconv.FormatBool(view.Locked),
	}
}
