package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/khanhng/coinfolio/internal/apperrors"
	"github.com/khanhng/coinfolio/internal/db"
	"github.com/khanhng/coinfolio/internal/models"
)

type transactionRepository struct {
	db *db.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(database *db.DB) TransactionRepository {
	return &transactionRepository{db: database}
}

func (r *transactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.Version == 0 {
		tx.Version = 1
	}
	if err := r.db.WithContext(ctx).Create(tx).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *transactionRepository) GetByID(ctx context.Context, userID, id string) (*models.Transaction, error) {
	if id == "" {
		return nil, apperrors.NewNotFound("transaction", id)
	}

	var tx models.Transaction
	err := r.db.WithContext(ctx).First(&tx, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("transaction", id)
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &tx, nil
}

func (r *transactionRepository) ListByUser(ctx context.Context, userID string) ([]*models.Transaction, error) {
	var txs []*models.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("purchase_date ASC, created_at ASC").
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

// Update writes an owner edit. The row is matched on id, owner, and the
// version the caller read; zero rows affected means either a concurrent edit
// (conflict) or a foreign/missing id (not found).
func (r *transactionRepository) Update(ctx context.Context, tx *models.Transaction) error {
	res := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("id = ? AND user_id = ? AND version = ?", tx.ID, tx.UserID, tx.Version).
		Updates(map[string]interface{}{
			"asset_id":       tx.AssetID,
			"quantity":       tx.Quantity,
			"purchase_price": tx.PurchasePrice,
			"purchase_date":  tx.PurchaseDate,
			"notes":          tx.Notes,
			"version":        tx.Version + 1,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update transaction: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, tx.UserID, tx.ID); err != nil {
			return err
		}
		return apperrors.NewConflict("transaction", tx.ID)
	}
	tx.Version++
	return nil
}

func (r *transactionRepository) Delete(ctx context.Context, userID, id string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Transaction{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete transaction: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewNotFound("transaction", id)
	}
	return nil
}

func (r *transactionRepository) DistinctAssetIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Distinct("asset_id").
		Order("asset_id ASC").
		Pluck("asset_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list asset ids: %w", err)
	}
	return ids, nil
}
