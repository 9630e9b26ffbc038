package usecase

import (
	"github.com/iho/ledgerstream/internal/domain"
)

// LedgerStore holds accounts and transaction records. Implementations are
// not required to be safe for concurrent use.
type LedgerStore interface {
	GetOrCreateAccount(client domain.ClientID) *domain.Account
	Account(client domain.ClientID) (*domain.Account, bool)
	Transaction(tx domain.TxID) (*domain.TransactionRecord, bool)
	InsertTransaction(record *domain.TransactionRecord) error
	Accounts() []domain.AccountSnapshot
}

// EntrySource yields entries in arrival order.
type EntrySource interface {
	// Next returns the next entry, io.EOF at the end of the stream, or a
	// *domain.EntryError for a record that could not be parsed.
	Next() (domain.Entry, error)
	// Line returns the input line of the last record read.
	Line() int
}
