package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/iho/ledgerstream/internal/domain"
)

var inputHeader = []string{"type", "client", "tx", "amount"}

// row is one input record before conversion to a domain entry.
type row struct {
	Type   string `validate:"required,oneof=deposit withdrawal dispute resolve chargeback"`
	Client string `validate:"required,numeric"`
	Tx     string `validate:"required,numeric"`
	Amount string
}

// Reader decodes ledger entries from CSV input.
type Reader struct {
	csv      *csv.Reader
	validate *validator.Validate
	header   bool
	line     int
}

// NewReader creates a new Reader over r.
func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'
	cr.ReuseRecord = true

	return &Reader{
		csv:      cr,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Line returns the input line of the last record read.
func (r *Reader) Line() int {
	return r.line
}

// Next returns the next entry. It returns io.EOF at the end of input, a
// *domain.EntryError for a record that cannot be parsed, and any other
// error for unrecoverable input failures.
func (r *Reader) Next() (domain.Entry, error) {
	if !r.header {
		if err := r.readHeader(); err != nil {
			return nil, err
		}
	}

	record, err := r.csv.Read()
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			r.line = parseErr.StartLine
			return nil, &domain.EntryError{Line: r.line, Err: fmt.Errorf("%w: %v", domain.ErrMalformedEntry, err)}
		}
		return nil, err
	}
	r.line, _ = r.csv.FieldPos(0)

	entry, err := r.parse(record)
	if err != nil {
		return nil, &domain.EntryError{Line: r.line, Err: err}
	}
	return entry, nil
}

func (r *Reader) readHeader() error {
	record, err := r.csv.Read()
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: empty input", domain.ErrInvalidHeader)
	}
	if err != nil {
		return err
	}
	r.line, _ = r.csv.FieldPos(0)

	if len(record) < len(inputHeader)-1 || len(record) > len(inputHeader) {
		return fmt.Errorf("%w: got %q", domain.ErrInvalidHeader, record)
	}
	for i, field := range record {
		if !strings.EqualFold(strings.TrimSpace(field), inputHeader[i]) {
			return fmt.Errorf("%w: column %d is %q, want %q", domain.ErrInvalidHeader, i+1, field, inputHeader[i])
		}
	}

	r.header = true
	return nil
}

func (r *Reader) parse(record []string) (domain.Entry, error) {
	if len(record) < 3 || len(record) > 4 {
		return nil, fmt.Errorf("%w: expected 3 or 4 fields, got %d", domain.ErrMalformedEntry, len(record))
	}

	raw := row{
		Type:   strings.ToLower(strings.TrimSpace(record[0])),
		Client: strings.TrimSpace(record[1]),
		Tx:     strings.TrimSpace(record[2]),
	}
	if len(record) == 4 {
		raw.Amount = strings.TrimSpace(record[3])
	}

	if err := r.validate.Struct(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedEntry, err)
	}

	client, err := strconv.ParseUint(raw.Client, 10, 16)
	if err != nil {
		return nil, fmt.Errorf("%w: client %q: %v", domain.ErrMalformedEntry, raw.Client, err)
	}
	tx, err := strconv.ParseUint(raw.Tx, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: tx %q: %v", domain.ErrMalformedEntry, raw.Tx, err)
	}

	switch raw.Type {
	case "deposit", "withdrawal":
		kind := domain.Deposit
		if raw.Type == "withdrawal" {
			kind = domain.Withdrawal
		}
		if raw.Amount == "" {
			return nil, fmt.Errorf("%w: %s tx %d", domain.ErrMissingAmount, raw.Type, tx)
		}
		amount, err := decimal.NewFromString(raw.Amount)
		if err != nil {
			return nil, fmt.Errorf("%w: amount %q: %v", domain.ErrMalformedEntry, raw.Amount, err)
		}
		if amount.IsNegative() {
			return nil, fmt.Errorf("%w: negative amount %s", domain.ErrMalformedEntry, raw.Amount)
		}
		return domain.FundMovement{
			Kind:   kind,
			Client: domain.ClientID(client),
			Tx:     domain.TxID(tx),
			Amount: amount,
		}, nil

	case "dispute":
		return domain.Operation{Kind: domain.Dispute, Client: domain.ClientID(client), Tx: domain.TxID(tx)}, nil
	case "resolve":
		return domain.Operation{Kind: domain.Resolve, Client: domain.ClientID(client), Tx: domain.TxID(tx)}, nil
	default:
		return domain.Operation{Kind: domain.Chargeback, Client: domain.ClientID(client), Tx: domain.TxID(tx)}, nil
	}
}
