package usecase

import "github.com/MidasLamb/banking-exercise/internal/ledger/entity"

type IngestResult struct {
	BatchID string
}

type BatchResult struct {
	Meta entity.BatchMeta
}

type AccountsResult struct {
	Accounts []entity.AccountView
}
