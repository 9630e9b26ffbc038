package usecase

import (
	"fmt"

	"github.com/iho/ledgerstream/internal/domain"
	"github.com/iho/ledgerstream/internal/infrastructure/metrics"
)

// Processor applies entries to a LedgerStore. It keeps no state of its own
// between calls.
type Processor struct {
	store   LedgerStore
	metrics *metrics.Metrics
}

// NewProcessor creates a new Processor.
func NewProcessor(store LedgerStore, metrics *metrics.Metrics) *Processor {
	return &Processor{
		store:   store,
		metrics: metrics,
	}
}

// Process dispatches entry to the fund-moving or operation path.
func (p *Processor) Process(entry domain.Entry) error {
	switch e := entry.(type) {
	case domain.FundMovement:
		return p.ApplyFundMovement(e)
	case domain.Operation:
		return p.ApplyOperation(e)
	default:
		return fmt.Errorf("%w: unsupported entry %T", domain.ErrMalformedEntry, entry)
	}
}

// ApplyFundMovement applies a deposit or withdrawal and records it.
// A rejected withdrawal is still recorded, with status Failed.
func (p *Processor) ApplyFundMovement(m domain.FundMovement) error {
	if m.Amount.IsNegative() {
		return fmt.Errorf("%w: negative amount %s", domain.ErrMalformedEntry, m.Amount)
	}

	if _, exists := p.store.Transaction(m.Tx); exists {
		return fmt.Errorf("%w: tx %d", domain.ErrDuplicateTransaction, m.Tx)
	}

	account := p.account(m.Client)
	if account.Locked {
		return fmt.Errorf("%w: client %d", domain.ErrAccountLocked, m.Client)
	}

	record := domain.NewTransactionRecord(m)
	if err := p.store.InsertTransaction(record); err != nil {
		return err
	}

	var applyErr error
	switch m.Kind {
	case domain.Deposit:
		account.Deposit(m.Amount)
	case domain.Withdrawal:
		applyErr = account.Withdraw(m.Amount)
	default:
		applyErr = fmt.Errorf("%w: unknown fund kind %s", domain.ErrMalformedEntry, m.Kind)
	}

	if applyErr != nil {
		if err := record.Transition(domain.TxStatusFailed); err != nil {
			return err
		}
		return fmt.Errorf("%w: client %d tx %d amount %s available %s",
			applyErr, m.Client, m.Tx, m.Amount, account.Available)
	}

	return record.Transition(domain.TxStatusProcessed)
}

// ApplyOperation applies a dispute, resolve or chargeback to the referenced
// transaction. Nothing is mutated when an error is returned.
func (p *Processor) ApplyOperation(op domain.Operation) error {
	record, ok := p.store.Transaction(op.Tx)
	if !ok {
		return fmt.Errorf("%w: tx %d", domain.ErrTransactionNotFound, op.Tx)
	}

	if record.Client != op.Client {
		return fmt.Errorf("%w: tx %d belongs to client %d, not %d",
			domain.ErrCrossClientOperation, op.Tx, record.Client, op.Client)
	}

	account, ok := p.store.Account(op.Client)
	if !ok {
		return fmt.Errorf("%w: client %d tx %d", domain.ErrAccountMissing, op.Client, op.Tx)
	}

	switch op.Kind {
	case domain.Dispute:
		if err := record.Transition(domain.TxStatusDisputed); err != nil {
			return err
		}
		account.Hold(record.Amount)

	case domain.Resolve:
		if !record.CanTransition(domain.TxStatusResolved) {
			return invalidState(op, record)
		}
		if err := account.Release(record.Amount); err != nil {
			return fmt.Errorf("%w: client %d tx %d", err, op.Client, op.Tx)
		}
		record.Status = domain.TxStatusResolved

	case domain.Chargeback:
		if !record.CanTransition(domain.TxStatusChargedBack) {
			return invalidState(op, record)
		}
		wasLocked := account.Locked
		if err := account.ChargeBack(record.Amount); err != nil {
			return fmt.Errorf("%w: client %d tx %d", err, op.Client, op.Tx)
		}
		record.Status = domain.TxStatusChargedBack
		if !wasLocked && p.metrics != nil {
			p.metrics.AccountsLocked.Inc()
		}

	default:
		return fmt.Errorf("%w: unknown operation kind %s", domain.ErrMalformedEntry, op.Kind)
	}

	return nil
}

func (p *Processor) account(client domain.ClientID) *domain.Account {
	if account, ok := p.store.Account(client); ok {
		return account
	}

	if p.metrics != nil {
		p.metrics.AccountsCreated.Inc()
	}
	return p.store.GetOrCreateAccount(client)
}

func invalidState(op domain.Operation, record *domain.TransactionRecord) error {
	return fmt.Errorf("%w: cannot %s tx %d in status %s", domain.ErrInvalidState, op.Kind, op.Tx, record.Status)
}
