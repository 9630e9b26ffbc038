package csvio

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/iho/ledgerstream/internal/domain"
)

var outputHeader = []string{"client", "available", "held", "total", "locked"}

// WriteAccounts writes one CSV row per account snapshot.
func WriteAccounts(w io.Writer, accounts []domain.AccountSnapshot) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(outputHeader); err != nil {
		return err
	}

	for _, a := range accounts {
		err := cw.Write([]string{
			strconv.FormatUint(uint64(a.Client), 10),
			a.Available.String(),
			a.Held.String(),
			a.Total.String(),
			strconv.FormatBool(a.Locked),
		})
		if err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
