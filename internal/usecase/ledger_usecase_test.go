package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/ledgerstream/internal/adapter/repository/memory"
	"github.com/iho/ledgerstream/internal/domain"
	"github.com/iho/ledgerstream/internal/infrastructure/metrics"
	"github.com/iho/ledgerstream/internal/usecase"
	"github.com/iho/ledgerstream/internal/usecase/mocks"
)

// sliceSource replays a fixed list of entries and errors.
type sliceSource struct {
	items []any
	pos   int
}

func (s *sliceSource) Next() (domain.Entry, error) {
	if s.pos >= len(s.items) {
		return nil, io.EOF
	}
	item := s.items[s.pos]
	s.pos++
	if err, ok := item.(error); ok {
		return nil, err
	}
	return item.(domain.Entry), nil
}

func (s *sliceSource) Line() int { return s.pos + 1 }

func TestLedgerUseCase_RunSkipsRejectedEntries(t *testing.T) {
	store, err := memory.NewStore(memory.StoreConfig{})
	require.NoError(t, err)
	m := metrics.New(prometheus.NewRegistry())

	var logs bytes.Buffer
	uc := usecase.NewLedgerUseCase(store, zerolog.New(&logs), m)

	source := &sliceSource{items: []any{
		deposit(1, 1, "10"),
		withdrawal(1, 2, "15"),
		&domain.EntryError{Line: 4, Err: domain.ErrMissingAmount},
		op(domain.Dispute, 1, 1),
		op(domain.Resolve, 1, 1),
		op(domain.Dispute, 1, 1),
		op(domain.Chargeback, 1, 1),
		op(domain.Chargeback, 1, 1),
	}}

	result, err := uc.Run(context.Background(), source)
	require.NoError(t, err)

	assert.Equal(t, 5, result.Processed)
	assert.Equal(t, 3, result.Rejected)
	require.Len(t, result.Accounts, 1)

	snap := result.Accounts[0]
	assert.Equal(t, domain.ClientID(1), snap.Client)
	assert.True(t, snap.Available.IsZero())
	assert.True(t, snap.Held.IsZero())
	assert.True(t, snap.Total.IsZero())
	assert.True(t, snap.Locked)

	assert.Contains(t, logs.String(), `"reason":"insufficient_funds"`)
	assert.Contains(t, logs.String(), `"reason":"missing_amount"`)
	assert.Contains(t, logs.String(), `"reason":"invalid_state"`)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.EntriesProcessed.WithLabelValues("dispute")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.EntriesRejected.WithLabelValues("unparsed", "missing_amount")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.EntriesRejected.WithLabelValues("withdrawal", "insufficient_funds")))
}

func TestLedgerUseCase_RunStopsOnReadFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	readErr := errors.New("disk gone")
	source := mocks.NewMockEntrySource(ctrl)
	store := mocks.NewMockLedgerStore(ctrl)

	source.EXPECT().Next().Return(nil, readErr)
	store.EXPECT().Accounts().Times(0)

	uc := usecase.NewLedgerUseCase(store, zerolog.Nop(), nil)

	result, err := uc.Run(context.Background(), source)
	require.ErrorIs(t, err, readErr)
	assert.Nil(t, result)
}

func TestLedgerUseCase_RunHonoursCancellation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	source := mocks.NewMockEntrySource(ctrl)
	source.EXPECT().Next().Times(0)

	store, err := memory.NewStore(memory.StoreConfig{})
	require.NoError(t, err)
	uc := usecase.NewLedgerUseCase(store, zerolog.Nop(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = uc.Run(ctx, source)
	require.ErrorIs(t, err, context.Canceled)
}

func TestLedgerUseCase_RunEmptyStream(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	source := mocks.NewMockEntrySource(ctrl)
	source.EXPECT().Next().Return(nil, io.EOF)

	store := mocks.NewMockLedgerStore(ctrl)
	store.EXPECT().Accounts().Return(nil)

	uc := usecase.NewLedgerUseCase(store, zerolog.Nop(), nil)

	result, err := uc.Run(context.Background(), source)
	require.NoError(t, err)
	assert.Zero(t, result.Processed)
	assert.Empty(t, result.Accounts)
}
