package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TxStatus is the lifecycle state of a stored transaction.
type TxStatus string

const (
	TxStatusNew         TxStatus = "new"
	TxStatusProcessed   TxStatus = "processed"
	TxStatusFailed      TxStatus = "failed"
	TxStatusDisputed    TxStatus = "disputed"
	TxStatusResolved    TxStatus = "resolved"
	TxStatusChargedBack TxStatus = "charged_back"
)

var txTransitions = map[TxStatus][]TxStatus{
	TxStatusNew:       {TxStatusProcessed, TxStatusFailed},
	TxStatusProcessed: {TxStatusDisputed},
	TxStatusResolved:  {TxStatusDisputed},
	TxStatusDisputed:  {TxStatusResolved, TxStatusChargedBack},
}

// TransactionRecord is a stored deposit or withdrawal.
type TransactionRecord struct {
	Tx     TxID
	Client ClientID
	Kind   FundKind
	Amount decimal.Decimal
	Status TxStatus
}

// NewTransactionRecord creates a record in the New state.
func NewTransactionRecord(m FundMovement) *TransactionRecord {
	return &TransactionRecord{
		Tx:     m.Tx,
		Client: m.Client,
		Kind:   m.Kind,
		Amount: m.Amount,
		Status: TxStatusNew,
	}
}

// CanTransition reports whether the record may move to next.
func (r *TransactionRecord) CanTransition(next TxStatus) bool {
	for _, allowed := range txTransitions[r.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Transition moves the record to next or returns ErrInvalidState.
func (r *TransactionRecord) Transition(next TxStatus) error {
	if !r.CanTransition(next) {
		return fmt.Errorf("%w: tx %d is %s, cannot become %s", ErrInvalidState, r.Tx, r.Status, next)
	}
	r.Status = next
	return nil
}
