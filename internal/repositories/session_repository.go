package repositories

import (
	"errors"

	"gorm.io/gorm"

	"shaqyru/internal/models"
)

type GenerationSessionRepository interface {
	Create(sess *models.GenerationSession) error
	GetByID(id uint) (*models.GenerationSession, error)
	ListByOwner(ownerID uint) ([]models.GenerationSession, error)
	UpdateByID(id uint, updates map[string]interface{}) error
	DeleteByID(id uint) error
}

type generationSessionRepository struct {
	db *gorm.DB
}

func NewGenerationSessionRepository(db *gorm.DB) GenerationSessionRepository {
	return &generationSessionRepository{db: db}
}

func (r *generationSessionRepository) Create(sess *models.GenerationSession) error {
	return r.db.Create(sess).Error
}

func (r *generationSessionRepository) GetByID(id uint) (*models.GenerationSession, error) {
	var sess models.GenerationSession
	if err := r.db.First(&sess, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sess, nil
}

func (r *generationSessionRepository) ListByOwner(ownerID uint) ([]models.GenerationSession, error) {
	var sessions []models.GenerationSession
	res := r.db.Where("owner_id = ?", ownerID).Order("updated_at desc").Find(&sessions)
	if res.Error != nil {
		return nil, res.Error
	}
	return sessions, nil
}

func (r *generationSessionRepository) UpdateByID(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.GenerationSession{}).Where("id = ?", id).Updates(updates).Error
}

func (r *generationSessionRepository) DeleteByID(id uint) error {
	return r.db.Delete(&models.GenerationSession{}, id).Error
}
