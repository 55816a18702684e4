package repositories

import (
	"errors"

	"gorm.io/gorm"

	"shaqyru/internal/models"
)

type GuestbookRepository interface {
	Create(msg *models.GuestbookMessage) error
	GetByID(invitationID, msgID uint) (*models.GuestbookMessage, error)
	ListByInvitation(invitationID uint) ([]models.GuestbookMessage, error)
	CountByInvitation(invitationID uint) (int64, error)
	CountPending(invitationID uint) (int64, error)
	SetApproved(invitationID, msgID uint, approved bool) error
	DeleteByID(invitationID, msgID uint) error
}

type guestbookRepository struct {
	db *gorm.DB
}

func NewGuestbookRepository(db *gorm.DB) GuestbookRepository {
	return &guestbookRepository{db: db}
}

func (r *guestbookRepository) Create(msg *models.GuestbookMessage) error {
	return r.db.Create(msg).Error
}

func (r *guestbookRepository) GetByID(invitationID, msgID uint) (*models.GuestbookMessage, error) {
	var msg models.GuestbookMessage
	err := r.db.Where("invitation_id = ? AND id = ?", invitationID, msgID).Take(&msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &msg, nil
}

func (r *guestbookRepository) ListByInvitation(invitationID uint) ([]models.GuestbookMessage, error) {
	var out []models.GuestbookMessage
	if err := r.db.Where("invitation_id = ?", invitationID).Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *guestbookRepository) CountByInvitation(invitationID uint) (int64, error) {
	var n int64
	err := r.db.Model(&models.GuestbookMessage{}).Where("invitation_id = ?", invitationID).Count(&n).Error
	return n, err
}

func (r *guestbookRepository) CountPending(invitationID uint) (int64, error) {
	var n int64
	err := r.db.Model(&models.GuestbookMessage{}).
		Where("invitation_id = ? AND approved = ?", invitationID, false).Count(&n).Error
	return n, err
}

func (r *guestbookRepository) SetApproved(invitationID, msgID uint, approved bool) error {
	return r.db.Model(&models.GuestbookMessage{}).
		Where("invitation_id = ? AND id = ?", invitationID, msgID).
		Update("approved", approved).Error
}

func (r *guestbookRepository) DeleteByID(invitationID, msgID uint) error {
	return r.db.Where("invitation_id = ? AND id = ?", invitationID, msgID).
		Delete(&models.GuestbookMessage{}).Error
}
