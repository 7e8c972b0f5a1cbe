package entity

import "github.com/shopspring/decimal"

type (
	ClientID uint16
	TxID     uint32
)

// Event is either a Transaction or a DisputeAction.
type Event interface {
	ClientID() ClientID
	isEvent()
}

type Transaction struct {
	Kind   TxKind
	Client ClientID
	ID     TxID
	Amount decimal.Decimal
}

func (t Transaction) ClientID() ClientID { return t.Client }
func (Transaction) isEvent()             {}

// DisputeAction references a prior transaction of the same client. The amount
// is always taken from the referenced transaction.
type DisputeAction struct {
	Kind   ActionKind
	Client ClientID
	TxID   TxID
}

func (d DisputeAction) ClientID() ClientID { return d.Client }
func (DisputeAction) isEvent()             {}

type TransactionRecord struct {
	Transaction Transaction
	State       TxState
}
