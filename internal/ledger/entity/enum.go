package entity

type TxKind string

const (
	TxKindDeposit    TxKind = "deposit"
	TxKindWithdrawal TxKind = "withdrawal"
)

type ActionKind string

const (
	ActionKindDispute    ActionKind = "dispute"
	ActionKindResolve    ActionKind = "resolve"
	ActionKindChargeback ActionKind = "chargeback"
)

// TxState is the lifecycle state of a transaction inside an account history.
//
//	Accepted ──► Disputed ──► Resolved
//	                 │
//	                 └──────► Chargebacked
//	Rejected (terminal)
type TxState int

const (
	TxStateAccepted TxState = iota
	TxStateRejected
	TxStateDisputed
	TxStateResolved
	TxStateChargebacked
)

func (s TxState) String() string {
	switch s {
	case TxStateAccepted:
		return "ACCEPTED"
	case TxStateRejected:
		return "REJECTED"
	case TxStateDisputed:
		return "DISPUTED"
	case TxStateResolved:
		return "RESOLVED"
	case TxStateChargebacked:
		return "CHARGEBACKED"
	default:
		return "UNKNOWN"
	}
}

// Outcome reports what applying a single event did. It is informational only;
// business rejections are outcomes, not errors.
type Outcome string

const (
	OutcomeAccepted         Outcome = "accepted"
	OutcomeRejected         Outcome = "rejected"
	OutcomeDuplicate        Outcome = "duplicate"
	OutcomeDisputed         Outcome = "disputed"
	OutcomeResolved         Outcome = "resolved"
	OutcomeChargebacked     Outcome = "chargebacked"
	OutcomeNoop             Outcome = "noop"
	OutcomeUnknownReference Outcome = "unknown_reference"
)

type BatchStatus string

const (
	BatchStatusQueued     BatchStatus = "QUEUED"
	BatchStatusProcessing BatchStatus = "PROCESSING"
	BatchStatusDone       BatchStatus = "DONE"
	BatchStatusFailed     BatchStatus = "FAILED"
)
