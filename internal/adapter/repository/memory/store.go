package memory

import (
	"fmt"
	"sort"

	"github.com/hashicorp/golang-lru/v2/simplelru"

	"github.com/iho/ledgerstream/internal/domain"
)

// StoreConfig configures a Store.
type StoreConfig struct {
	// RetentionLimit caps the number of retained transaction records.
	// Zero keeps every record.
	RetentionLimit int
	// OnEvict is called for each record dropped from the retention window.
	OnEvict func(record *domain.TransactionRecord)
}

// Store implements usecase.LedgerStore in memory. It is not safe for
// concurrent use.
type Store struct {
	accounts map[domain.ClientID]*domain.Account
	txs      map[domain.TxID]*domain.TransactionRecord
	window   *simplelru.LRU[domain.TxID, *domain.TransactionRecord]
}

// NewStore creates a new Store.
func NewStore(cfg StoreConfig) (*Store, error) {
	s := &Store{
		accounts: make(map[domain.ClientID]*domain.Account),
	}

	if cfg.RetentionLimit < 0 {
		return nil, fmt.Errorf("retention limit must not be negative, got %d", cfg.RetentionLimit)
	}

	if cfg.RetentionLimit == 0 {
		s.txs = make(map[domain.TxID]*domain.TransactionRecord)
		return s, nil
	}

	// Records are only read with Peek, so eviction follows insertion order.
	window, err := simplelru.NewLRU[domain.TxID, *domain.TransactionRecord](cfg.RetentionLimit, func(_ domain.TxID, record *domain.TransactionRecord) {
		if cfg.OnEvict != nil {
			cfg.OnEvict(record)
		}
	})
	if err != nil {
		return nil, err
	}
	s.window = window

	return s, nil
}

// GetOrCreateAccount returns the account for client, creating it if needed.
func (s *Store) GetOrCreateAccount(client domain.ClientID) *domain.Account {
	if account, ok := s.accounts[client]; ok {
		return account
	}

	account := domain.NewAccount(client)
	s.accounts[client] = account
	return account
}

// Account returns the account for client without creating it.
func (s *Store) Account(client domain.ClientID) (*domain.Account, bool) {
	account, ok := s.accounts[client]
	return account, ok
}

// Transaction returns the record stored under tx.
func (s *Store) Transaction(tx domain.TxID) (*domain.TransactionRecord, bool) {
	if s.window != nil {
		return s.window.Peek(tx)
	}

	record, ok := s.txs[tx]
	return record, ok
}

// InsertTransaction stores record. Records are never overwritten.
func (s *Store) InsertTransaction(record *domain.TransactionRecord) error {
	if _, exists := s.Transaction(record.Tx); exists {
		return fmt.Errorf("%w: tx %d", domain.ErrDuplicateTransaction, record.Tx)
	}

	if s.window != nil {
		s.window.Add(record.Tx, record)
		return nil
	}

	s.txs[record.Tx] = record
	return nil
}

// Accounts returns a snapshot of every account ordered by client id.
func (s *Store) Accounts() []domain.AccountSnapshot {
	snapshots := make([]domain.AccountSnapshot, 0, len(s.accounts))
	for _, account := range s.accounts {
		snapshots = append(snapshots, account.Snapshot())
	}

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Client < snapshots[j].Client
	})

	return snapshots
}

// TransactionCount returns the number of retained transaction records.
func (s *Store) TransactionCount() int {
	if s.window != nil {
		return s.window.Len()
	}
	return len(s.txs)
}
