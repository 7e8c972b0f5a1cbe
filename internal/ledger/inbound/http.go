package inbound

import (
	"context"
	"io"

	"github.com/MidasLamb/banking-exercise/internal/ledger/entity"
	"github.com/MidasLamb/banking-exercise/internal/ledger/usecase"
	"github.com/MidasLamb/banking-exercise/internal/pkg/pkgrouter"
)

type uc interface {
	Ingest(ctx context.Context, r io.Reader) (usecase.IngestResult, error)
	Batch(ctx context.Context, batchID string) (usecase.BatchResult, error)
	Accounts(ctx context.Context) (usecase.AccountsResult, error)
	Account(ctx context.Context, client entity.ClientID) (entity.AccountView, error)
}

func RegisterHTTPEndpoint(r *pkgrouter.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/batches", end.IngestBatch)
	r.GET("/batches/:id", end.Batch)

	r.GET("/accounts", end.Accounts)
	r.GET("/accounts/:client", end.Account)
}
