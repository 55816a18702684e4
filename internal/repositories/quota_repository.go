package repositories

import (
	"errors"

	"gorm.io/gorm"

	"shaqyru/internal/models"
)

type QuotaRepository interface {
	Get(invitationID uint) (*models.EditQuota, error)
	Save(q *models.EditQuota) error
	// RecordTransaction inserts a ledger row for the given gateway transaction
	// id. It returns false when the id was already recorded, which callers use
	// to skip re-applying additive effects on duplicate webhook deliveries.
	RecordTransaction(txn *models.PaymentTransaction) (bool, error)
}

type quotaRepository struct {
	db *gorm.DB
}

func NewQuotaRepository(db *gorm.DB) QuotaRepository {
	return &quotaRepository{db: db}
}

func (r *quotaRepository) Get(invitationID uint) (*models.EditQuota, error) {
	var q models.EditQuota
	err := r.db.Where("invitation_id = ?", invitationID).Take(&q).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &q, nil
}

func (r *quotaRepository) Save(q *models.EditQuota) error {
	return r.db.Save(q).Error
}

func (r *quotaRepository) RecordTransaction(txn *models.PaymentTransaction) (bool, error) {
	err := r.db.Create(txn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
