package domain

import "context"

// TxManager runs fn inside one atomic unit of work. Repositories called with
// the ctx handed to fn take part in the same transaction.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
