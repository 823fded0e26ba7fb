package handlers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/khanhng/coinfolio/internal/apperrors"
	"github.com/khanhng/coinfolio/internal/models"
	"github.com/khanhng/coinfolio/internal/portfolio"
	"github.com/khanhng/coinfolio/internal/services"
)

var errSentinel = errors.New("boom")

type stubAuthService struct {
	users map[string]*models.User // token -> user
}

func newStubAuth() *stubAuthService {
	return &stubAuthService{users: make(map[string]*models.User)}
}

func (s *stubAuthService) allow(token string, user *models.User) {
	s.users[token] = user
}

func (s *stubAuthService) Signup(ctx context.Context, name, email, password string) (*models.User, string, error) {
	if email == "" || password == "" {
		return nil, "", apperrors.NewValidation("email", "is required")
	}
	user := &models.User{ID: "user-new", Name: name, Email: email}
	return user, "token-new", nil
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	for token, user := range s.users {
		if user.Email == email {
			return user, token, nil
		}
	}
	return nil, "", apperrors.NewValidation("credentials", "are invalid")
}

func (s *stubAuthService) ResolveSession(ctx context.Context, token string) (*models.User, error) {
	user, ok := s.users[token]
	if !ok {
		return nil, apperrors.NewAuth("session token is invalid")
	}
	return user, nil
}

type stubTxService struct {
	mu    sync.Mutex
	txs   map[string]*models.Transaction
	calls int
	next  int
}

func newStubTxService() *stubTxService {
	return &stubTxService{txs: make(map[string]*models.Transaction)}
}

func (s *stubTxService) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *stubTxService) Create(ctx context.Context, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if err := tx.Validate(); err != nil {
		return err
	}
	s.next++
	tx.ID = fmt.Sprintf("tx-%d", s.next)
	tx.Version = 1
	s.txs[tx.ID] = tx
	return nil
}

func (s *stubTxService) Get(ctx context.Context, userID, id string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	tx, ok := s.txs[id]
	if !ok || tx.UserID != userID {
		return nil, apperrors.NewNotFound("transaction", id)
	}
	return tx, nil
}

func (s *stubTxService) ListForUser(ctx context.Context, userID string) ([]*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	var out []*models.Transaction
	for _, tx := range s.txs {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (s *stubTxService) Update(ctx context.Context, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	current, ok := s.txs[tx.ID]
	if !ok || current.UserID != tx.UserID {
		return apperrors.NewNotFound("transaction", tx.ID)
	}
	if current.Version != tx.Version {
		return apperrors.NewConflict("transaction", tx.ID)
	}
	tx.Version = current.Version + 1
	s.txs[tx.ID] = tx
	return nil
}

func (s *stubTxService) Delete(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	tx, ok := s.txs[id]
	if !ok || tx.UserID != userID {
		return apperrors.NewNotFound("transaction", id)
	}
	delete(s.txs, id)
	return nil
}

type stubPortfolioService struct {
	holdings []models.HoldingView
	totals   models.PortfolioTotals
	samples  []models.ValueSample
	released []string

	gotSort   portfolio.SortField
	gotDesc   bool
	gotWindow time.Duration
}

func (s *stubPortfolioService) Holdings(ctx context.Context, userID string, sortBy portfolio.SortField, descending bool) ([]models.HoldingView, models.PortfolioTotals, error) {
	s.gotSort = sortBy
	s.gotDesc = descending
	return s.holdings, s.totals, nil
}

func (s *stubPortfolioService) History(ctx context.Context, userID string, window time.Duration) ([]models.ValueSample, error) {
	s.gotWindow = window
	return s.samples, nil
}

func (s *stubPortfolioService) Release(userID string) {
	s.released = append(s.released, userID)
}

func (s *stubPortfolioService) Shutdown() {}

type stubQuoteService struct {
	markets []models.AssetQuote
	err     error
}

func (s *stubQuoteService) Snapshot() portfolio.QuoteSet         { return nil }
func (s *stubQuoteService) ApplyTick(quotes []models.AssetQuote) {}
func (s *stubQuoteService) Refresh(ctx context.Context) error    { return nil }
func (s *stubQuoteService) Start()                               {}
func (s *stubQuoteService) Stop()                                {}

func (s *stubQuoteService) Markets(ctx context.Context, perPage, page int) ([]models.AssetQuote, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.markets, nil
}

var (
	_ services.AuthService        = (*stubAuthService)(nil)
	_ services.TransactionService = (*stubTxService)(nil)
	_ services.PortfolioService   = (*stubPortfolioService)(nil)
	_ services.QuoteService       = (*stubQuoteService)(nil)
)
