package persistence

import (
	"context"

	gerrors "github.com/go-faster/errors"

	"github.com/ekklesia-dev/ekklesia-sdk/modules/offerings/domain/aggregates/offering"
	"github.com/ekklesia-dev/ekklesia-sdk/pkg/composables"
)

// One upsert per call: the counter row is created on first use and the
// increment-and-read is a single statement, so two writers on the same
// prefix serialize on the row lock instead of racing a read-max scan.
const receiptNextQuery = `
        INSERT INTO receipt_counters (prefix, value)
        VALUES ($1, 1)
        ON CONFLICT (prefix) DO UPDATE SET value = receipt_counters.value + 1
        RETURNING value`

type PgReceiptSequencer struct{}

func NewReceiptSequencer() offering.Sequencer {
	return &PgReceiptSequencer{}
}

func (g *PgReceiptSequencer) Next(ctx context.Context, prefix offering.Prefix) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := tx.QueryRow(ctx, receiptNextQuery, string(prefix)).Scan(&n); err != nil {
		return 0, gerrors.Wrap(err, "next receipt number")
	}
	return n, nil
}
