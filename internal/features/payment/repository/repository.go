package repository

import "context"

// SignatureLedger records transaction signatures that already paid for a
// generation, enforcing at-most-once use of a payment.
type SignatureLedger interface {
	// Consume marks the signature as spent. Returns false when it was
	// already consumed by an earlier request.
	Consume(ctx context.Context, signature string) (bool, error)

	// Release frees a consumed signature so the client can retry after a
	// downstream generation failure.
	Release(ctx context.Context, signature string) error
}
