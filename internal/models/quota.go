package models

import "time"

// EditQuota tracks metered edit attempts for one invitation. A nil TierID
// means no purchased tier; such invitations fall back to the free allowance.
// Invariant once a tier exists: EditsUsed <= EditsLimit.
type EditQuota struct {
	InvitationID uint `gorm:"primaryKey"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	TierID     *string `gorm:"size:64"`
	EditsLimit int     `gorm:"default:0"`
	EditsUsed  int     `gorm:"default:0"`
}

// TableName implements the GORM tabler interface.
func (EditQuota) TableName() string { return "edit_quotas" }

// PaymentTransactionKind distinguishes webhook deliveries.
type PaymentTransactionKind string

const (
	PaymentPurchase PaymentTransactionKind = "purchase"
	PaymentTopUp    PaymentTransactionKind = "topup"
)

// PaymentTransaction is the idempotency ledger for payment gateway callbacks.
// Delivery is at-least-once; the additive quota effect is applied only the
// first time a gateway transaction id is seen.
type PaymentTransaction struct {
	TransactionID string `gorm:"size:128;primaryKey"`
	CreatedAt     time.Time

	InvitationID uint                   `gorm:"index;not null"`
	PackageID    string                 `gorm:"size:64"`
	Kind         PaymentTransactionKind `gorm:"type:varchar(16);not null"`
	Success      bool
}

// TableName implements the GORM tabler interface.
func (PaymentTransaction) TableName() string { return "payment_transactions" }
