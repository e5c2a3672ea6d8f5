package services

import (
	"context"

	"github.com/ekklesia-dev/ekklesia-sdk/modules/offerings/domain/aggregates/offering"
)

// ReceiptRenderer produces the stored receipt body for an entry.
type ReceiptRenderer interface {
	Render(o offering.Offering) ([]byte, error)
}

// DocumentStore persists rendered receipt documents and returns the
// storage key recorded on the entry.
type DocumentStore interface {
	Put(ctx context.Context, receiptCode string, revision int, body []byte) (string, error)
	Delete(ctx context.Context, key string) error
}
