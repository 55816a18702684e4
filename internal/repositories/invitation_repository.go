package repositories

import (
	"errors"

	"gorm.io/gorm"

	"shaqyru/internal/apperrors"
	"shaqyru/internal/models"
)

type InvitationRepository interface {
	Create(inv *models.Invitation) error
	GetByID(id uint) (*models.Invitation, error)
	GetBySlug(slug string) (*models.Invitation, error)
	UpdateDocument(id uint, document, title, slug string) error
	ListByOwner(ownerID uint) ([]models.Invitation, error)
	DeleteByID(id uint) error
}

type invitationRepository struct {
	db *gorm.DB
}

func NewInvitationRepository(db *gorm.DB) InvitationRepository {
	return &invitationRepository{db: db}
}

func (r *invitationRepository) Create(inv *models.Invitation) error {
	if err := r.db.Create(inv).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &apperrors.ConflictError{Entity: "invitation slug", Key: inv.Slug}
		}
		return err
	}
	return nil
}

func (r *invitationRepository) GetByID(id uint) (*models.Invitation, error) {
	var inv models.Invitation
	if err := r.db.First(&inv, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &inv, nil
}

func (r *invitationRepository) GetBySlug(slug string) (*models.Invitation, error) {
	var inv models.Invitation
	if err := r.db.Where("slug = ?", slug).Take(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &inv, nil
}

// UpdateDocument replaces the stored document wholesale. Title and slug are
// only touched when non-empty.
func (r *invitationRepository) UpdateDocument(id uint, document, title, slug string) error {
	updates := map[string]interface{}{"document": document}
	if title != "" {
		updates["title"] = title
	}
	if slug != "" {
		updates["slug"] = slug
	}
	err := r.db.Model(&models.Invitation{}).Where("id = ?", id).Updates(updates).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return &apperrors.ConflictError{Entity: "invitation slug", Key: slug}
	}
	return err
}

func (r *invitationRepository) ListByOwner(ownerID uint) ([]models.Invitation, error) {
	var invs []models.Invitation
	if err := r.db.Where("owner_id = ?", ownerID).Order("updated_at desc").Find(&invs).Error; err != nil {
		return nil, err
	}
	return invs, nil
}

func (r *invitationRepository) DeleteByID(id uint) error {
	return r.db.Delete(&models.Invitation{}, id).Error
}
