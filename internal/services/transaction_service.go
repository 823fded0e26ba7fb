package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/khanhng/coinfolio/internal/models"
	"github.com/khanhng/coinfolio/internal/repositories"
)

// transactionService implements the TransactionService interface
type transactionService struct {
	repo   repositories.TransactionRepository
	logger *zap.Logger
}

// NewTransactionService creates a new transaction service
func NewTransactionService(repo repositories.TransactionRepository, logger *zap.Logger) TransactionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &transactionService{repo: repo, logger: logger}
}

func (s *transactionService) Create(ctx context.Context, tx *models.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, tx); err != nil {
		return err
	}
	s.logger.Info("transaction created",
		zap.String("id", tx.ID),
		zap.String("user_id", tx.UserID),
		zap.String("asset_id", tx.AssetID))
	return nil
}

func (s *transactionService) Get(ctx context.Context, userID, id string) (*models.Transaction, error) {
	return s.repo.GetByID(ctx, userID, id)
}

func (s *transactionService) ListForUser(ctx context.Context, userID string) ([]*models.Transaction, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *transactionService) Update(ctx context.Context, tx *models.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, tx); err != nil {
		return err
	}
	s.logger.Info("transaction updated", zap.String("id", tx.ID), zap.Int("version", tx.Version))
	return nil
}

func (s *transactionService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.logger.Info("transaction deleted", zap.String("id", id), zap.String("user_id", userID))
	return nil
}
