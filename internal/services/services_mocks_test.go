package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/khanhng/coinfolio/internal/apperrors"
	"github.com/khanhng/coinfolio/internal/models"
	"github.com/khanhng/coinfolio/internal/repositories"
)

// memoryUserRepo is an in-memory UserRepository for service tests.
type memoryUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
	seq   int
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[string]*models.User)}
}

func (r *memoryUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		r.seq++
		user.ID = fmt.Sprintf("user-%d", r.seq)
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memoryUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, apperrors.NewNotFound("user", id)
}

func (r *memoryUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, apperrors.NewNotFound("user", email)
}

var _ repositories.UserRepository = (*memoryUserRepo)(nil)

// memoryTxRepo is an in-memory TransactionRepository for service tests.
type memoryTxRepo struct {
	mu  sync.Mutex
	txs []*models.Transaction
	err error
}

func (r *memoryTxRepo) Create(_ context.Context, tx *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if tx.ID == "" {
		tx.ID = fmt.Sprintf("tx-%d", len(r.txs)+1)
	}
	if tx.Version == 0 {
		tx.Version = 1
	}
	clone := *tx
	r.txs = append(r.txs, &clone)
	return nil
}

func (r *memoryTxRepo) GetByID(_ context.Context, userID, id string) (*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tx := range r.txs {
		if tx.ID == id && tx.UserID == userID {
			clone := *tx
			return &clone, nil
		}
	}
	return nil, apperrors.NewNotFound("transaction", id)
}

func (r *memoryTxRepo) ListByUser(_ context.Context, userID string) ([]*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []*models.Transaction
	for _, tx := range r.txs {
		if tx.UserID == userID {
			clone := *tx
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *memoryTxRepo) Update(_ context.Context, tx *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.txs {
		if existing.ID == tx.ID && existing.UserID == tx.UserID {
			if existing.Version != tx.Version {
				return apperrors.NewConflict("transaction", tx.ID)
			}
			clone := *tx
			clone.Version++
			r.txs[i] = &clone
			tx.Version++
			return nil
		}
	}
	return apperrors.NewNotFound("transaction", tx.ID)
}

func (r *memoryTxRepo) Delete(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, tx := range r.txs {
		if tx.ID == id && tx.UserID == userID {
			r.txs = append(r.txs[:i], r.txs[i+1:]...)
			return nil
		}
	}
	return apperrors.NewNotFound("transaction", id)
}

func (r *memoryTxRepo) DistinctAssetIDs(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[string]struct{})
	var ids []string
	for _, tx := range r.txs {
		if _, ok := seen[tx.AssetID]; !ok {
			seen[tx.AssetID] = struct{}{}
			ids = append(ids, tx.AssetID)
		}
	}
	return ids, nil
}

var _ repositories.TransactionRepository = (*memoryTxRepo)(nil)

// stubProvider returns canned quotes or a canned error.
type stubProvider struct {
	mu      sync.Mutex
	quotes  []models.AssetQuote
	markets []models.AssetQuote
	err     error
	calls   int
}

func (p *stubProvider) GetQuotes(_ context.Context, _ []string) ([]models.AssetQuote, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.quotes, p.err
}

func (p *stubProvider) GetMarkets(_ context.Context, _, _ int) ([]models.AssetQuote, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.markets, nil
}

func (p *stubProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

var _ QuoteProvider = (*stubProvider)(nil)
