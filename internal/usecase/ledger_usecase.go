package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/ledgerstream/internal/domain"
	"github.com/iho/ledgerstream/internal/infrastructure/metrics"
)

// LedgerUseCase drives an entry stream through a Processor.
type LedgerUseCase struct {
	store     LedgerStore
	processor *Processor
	logger    zerolog.Logger
	metrics   *metrics.Metrics
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(store LedgerStore, logger zerolog.Logger, metrics *metrics.Metrics) *LedgerUseCase {
	return &LedgerUseCase{
		store:     store,
		processor: NewProcessor(store, metrics),
		logger:    logger,
		metrics:   metrics,
	}
}

// RunResult summarises a completed run.
type RunResult struct {
	Processed int
	Rejected  int
	Accounts  []domain.AccountSnapshot
}

// Run applies every entry from source in order. Per-entry failures are
// logged and skipped; only read failures and cancellation stop the run.
func (uc *LedgerUseCase) Run(ctx context.Context, source EntrySource) (*RunResult, error) {
	start := time.Now()
	result := &RunResult{}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entry, err := source.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if !domain.IsEntryError(err) {
				return nil, fmt.Errorf("read entry: %w", err)
			}
			uc.reject(source.Line(), nil, err)
			result.Rejected++
			continue
		}

		if err := uc.processor.Process(entry); err != nil {
			uc.reject(source.Line(), entry, err)
			result.Rejected++
			continue
		}

		result.Processed++
		if uc.metrics != nil {
			uc.metrics.EntriesProcessed.WithLabelValues(entry.KindName()).Inc()
		}
	}

	result.Accounts = uc.store.Accounts()

	if uc.metrics != nil {
		uc.metrics.RunDuration.Set(time.Since(start).Seconds())
		uc.metrics.LastRunTimestamp.SetToCurrentTime()
	}

	uc.logger.Info().
		Int("processed", result.Processed).
		Int("rejected", result.Rejected).
		Int("accounts", len(result.Accounts)).
		Dur("elapsed", time.Since(start)).
		Msg("ledger stream applied")

	return result, nil
}

func (uc *LedgerUseCase) reject(line int, entry domain.Entry, err error) {
	kind := "unparsed"
	event := uc.logger.Warn().Int("line", line)
	if entry != nil {
		kind = entry.KindName()
		event = event.
			Str("type", kind).
			Uint16("client", uint16(entry.ClientID())).
			Uint32("tx", uint32(entry.TxID()))
	}

	reason := domain.ErrorCode(err)
	event.Str("reason", reason).Err(err).Msg("entry rejected")

	if uc.metrics != nil {
		uc.metrics.EntriesRejected.WithLabelValues(kind, reason).Inc()
	}
}
