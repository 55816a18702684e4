package repositories

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"shaqyru/internal/models"
)

type GiftRepository interface {
	ListItems(invitationID uint) ([]models.GiftItem, error)
	GetItem(invitationID, itemID uint) (*models.GiftItem, error)
	FindItemByName(invitationID uint, name string) (*models.GiftItem, error)
	CreateItem(item *models.GiftItem) error
	DeleteItem(invitationID, itemID uint) error
	Reserve(item *models.GiftItem, res *models.GiftReservation) error
	Release(invitationID, itemID uint) error
	ListReservations(invitationID uint) ([]models.GiftReservation, error)
	CountReservations(invitationID uint) (int64, error)
}

type giftRepository struct {
	db *gorm.DB
}

func NewGiftRepository(db *gorm.DB) GiftRepository {
	return &giftRepository{db: db}
}

func (r *giftRepository) ListItems(invitationID uint) ([]models.GiftItem, error) {
	var items []models.GiftItem
	if err := r.db.Where("invitation_id = ?", invitationID).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *giftRepository) GetItem(invitationID, itemID uint) (*models.GiftItem, error) {
	var item models.GiftItem
	err := r.db.Where("invitation_id = ? AND id = ?", invitationID, itemID).Take(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// FindItemByName matches case-insensitively so "Самовар" and "самовар" hit
// the same item.
func (r *giftRepository) FindItemByName(invitationID uint, name string) (*models.GiftItem, error) {
	var item models.GiftItem
	err := r.db.Where("invitation_id = ? AND lower(name) = ?", invitationID, strings.ToLower(strings.TrimSpace(name))).
		Take(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *giftRepository) CreateItem(item *models.GiftItem) error {
	return r.db.Create(item).Error
}

func (r *giftRepository) DeleteItem(invitationID, itemID uint) error {
	return r.db.Where("invitation_id = ? AND id = ?", invitationID, itemID).Delete(&models.GiftItem{}).Error
}

// Reserve marks the item taken and records who took it in one transaction.
func (r *giftRepository) Reserve(item *models.GiftItem, res *models.GiftReservation) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.GiftItem{}).Where("id = ?", item.ID).
			Update("reserved", true).Error; err != nil {
			return err
		}
		return tx.Create(res).Error
	})
}

func (r *giftRepository) Release(invitationID, itemID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.GiftItem{}).
			Where("invitation_id = ? AND id = ?", invitationID, itemID).
			Update("reserved", false).Error; err != nil {
			return err
		}
		return tx.Where("invitation_id = ? AND gift_item_id = ?", invitationID, itemID).
			Delete(&models.GiftReservation{}).Error
	})
}

func (r *giftRepository) ListReservations(invitationID uint) ([]models.GiftReservation, error) {
	var out []models.GiftReservation
	if err := r.db.Where("invitation_id = ?", invitationID).Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *giftRepository) CountReservations(invitationID uint) (int64, error) {
	var n int64
	err := r.db.Model(&models.GiftReservation{}).Where("invitation_id = ?", invitationID).Count(&n).Error
	return n, err
}
