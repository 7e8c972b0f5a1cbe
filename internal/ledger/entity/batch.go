package entity

type BatchMeta struct {
	ID        string
	Status    BatchStatus
	Err       string
	StartedAt int64
	EndedAt   int64

	TotalLines int64
	ParsedOK   int64
	ParseErr   int64
	Outcomes   map[Outcome]int64
}

type AccountLockedEvent struct {
	EventID string
	BatchID string
	Client  ClientID
	TxID    TxID
}
