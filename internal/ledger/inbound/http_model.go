package inbound

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/MidasLamb/banking-exercise/internal/ledger/entity"
)

type Account struct {
	Client    entity.ClientID `json:"client"`
	Available decimal.Decimal `json:"available"`
	Held      decimal.Decimal `json:"held"`
	Total     decimal.Decimal `json:"total"`
	Locked    bool            `json:"locked"`
}

type IngestResponse struct {
	BatchID string `json:"batch_id"`
}

func (IngestResponse) StatusCode() int {
	return http.StatusAccepted
}

func (IngestResponse) Message() string {
	return "batch accepted"
}

type BatchResponse struct {
	BatchID    string                   `json:"batch_id"`
	Status     entity.BatchStatus       `json:"status"`
	Error      string                   `json:"error,omitempty"`
	StartedAt  int64                    `json:"started_at"`
	EndedAt    int64                    `json:"ended_at"`
	TotalLines int64                    `json:"total_lines"`
	ParsedOK   int64                    `json:"parsed_ok"`
	ParseErr   int64                    `json:"parse_errors"`
	Outcomes   map[entity.Outcome]int64 `json:"outcomes"`
}

type AccountsResponse struct {
	Accounts []Account `json:"accounts"`
}

func (r AccountsResponse) Meta() map[string]any {
	return map[string]any{
		"total": len(r.Accounts),
	}
}
