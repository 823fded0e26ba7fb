package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/khanhng/coinfolio/internal/apperrors"
)

// Transaction represents a single recorded buy of an asset. It is immutable
// once created except through an explicit owner edit or delete.
type Transaction struct {
	ID            string          `json:"id" gorm:"primaryKey;column:id;type:varchar(255)"`
	UserID        string          `json:"user_id" gorm:"column:user_id;type:varchar(255);not null;index"`
	AssetID       string          `json:"asset_id" gorm:"column:asset_id;type:varchar(100);not null;index"`
	Quantity      decimal.Decimal `json:"quantity" gorm:"column:quantity;type:decimal(30,18);not null"`
	PurchasePrice decimal.Decimal `json:"purchase_price" gorm:"column:purchase_price;type:decimal(30,18);not null"`
	PurchaseDate  time.Time       `json:"purchase_date" gorm:"column:purchase_date;type:timestamptz;not null;index"`
	Notes         *string         `json:"notes" gorm:"column:notes;type:text"`

	// Optimistic-concurrency token; bumped on every successful update.
	Version int `json:"version" gorm:"column:version;type:integer;not null;default:1"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;type:timestamptz;autoUpdateTime"`
}

// TableName returns the table name for the Transaction model
func (Transaction) TableName() string {
	return "transactions"
}

// Validate validates the transaction data
func (t *Transaction) Validate() error {
	if t.UserID == "" {
		return apperrors.NewValidation("user_id", "is required")
	}
	if t.AssetID == "" {
		return apperrors.NewValidation("asset_id", "is required")
	}
	if !t.Quantity.IsPositive() {
		return apperrors.NewValidation("quantity", "must be positive")
	}
	if t.PurchasePrice.IsNegative() {
		return apperrors.NewValidation("purchase_price", "must be non-negative")
	}
	if t.PurchaseDate.IsZero() {
		return apperrors.NewValidation("purchase_date", "is required")
	}
	return nil
}

// CostBasis returns quantity * purchase price.
func (t *Transaction) CostBasis() decimal.Decimal {
	return t.Quantity.Mul(t.PurchasePrice)
}
