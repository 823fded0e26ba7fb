package repositories

import (
	"context"

	"github.com/khanhng/coinfolio/internal/models"
)

// UserRepository defines persistence for user accounts
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// TransactionRepository defines persistence for portfolio transactions. All
// reads and writes are scoped to the owning user.
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	GetByID(ctx context.Context, userID, id string) (*models.Transaction, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Transaction, error)
	// Update applies an owner edit guarded by the transaction's version;
	// a stale version yields a ConflictError.
	Update(ctx context.Context, tx *models.Transaction) error
	Delete(ctx context.Context, userID, id string) error
	// DistinctAssetIDs lists every asset id referenced by any transaction,
	// used to scope price-feed polling.
	DistinctAssetIDs(ctx context.Context) ([]string, error)
}
