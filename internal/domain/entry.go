package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ClientID identifies a client account.
type ClientID uint16

// TxID identifies a fund-moving transaction.
type TxID uint32

// Entry is one record of the input stream. It is either a FundMovement or
// an Operation; no other implementations exist.
type Entry interface {
	ClientID() ClientID
	TxID() TxID
	KindName() string
	isEntry()
}

// FundKind enumerates entries that move funds.
type FundKind uint8

const (
	Deposit FundKind = iota + 1
	Withdrawal
)

func (k FundKind) String() string {
	switch k {
	case Deposit:
		return "deposit"
	case Withdrawal:
		return "withdrawal"
	default:
		return fmt.Sprintf("fund_kind(%d)", uint8(k))
	}
}

// OperationKind enumerates entries that act on a prior transaction.
type OperationKind uint8

const (
	Dispute OperationKind = iota + 1
	Resolve
	Chargeback
)

func (k OperationKind) String() string {
	switch k {
	case Dispute:
		return "dispute"
	case Resolve:
		return "resolve"
	case Chargeback:
		return "chargeback"
	default:
		return fmt.Sprintf("operation_kind(%d)", uint8(k))
	}
}

// FundMovement is a deposit or withdrawal. Amount is always present.
type FundMovement struct {
	Kind   FundKind
	Client ClientID
	Tx     TxID
	Amount decimal.Decimal
}

func (f FundMovement) ClientID() ClientID { return f.Client }
func (f FundMovement) TxID() TxID         { return f.Tx }
func (f FundMovement) KindName() string   { return f.Kind.String() }
func (FundMovement) isEntry()             {}

// Operation is a dispute, resolve or chargeback referencing a stored
// transaction by id. The amount acted upon is the stored one.
type Operation struct {
	Kind   OperationKind
	Client ClientID
	Tx     TxID
}

func (o Operation) ClientID() ClientID { return o.Client }
func (o Operation) TxID() TxID         { return o.Tx }
func (o Operation) KindName() string   { return o.Kind.String() }
func (Operation) isEntry()             {}
