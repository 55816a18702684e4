package repositories

import (
	"gorm.io/gorm"

	"shaqyru/internal/models"
)

type AttendanceRepository interface {
	Create(resp *models.AttendanceResponse) error
	ListByInvitation(invitationID uint) ([]models.AttendanceResponse, error)
	CountByInvitation(invitationID uint) (int64, error)
}

type attendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) Create(resp *models.AttendanceResponse) error {
	return r.db.Create(resp).Error
}

func (r *attendanceRepository) ListByInvitation(invitationID uint) ([]models.AttendanceResponse, error) {
	var out []models.AttendanceResponse
	if err := r.db.Where("invitation_id = ?", invitationID).Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *attendanceRepository) CountByInvitation(invitationID uint) (int64, error) {
	var n int64
	err := r.db.Model(&models.AttendanceResponse{}).Where("invitation_id = ?", invitationID).Count(&n).Error
	return n, err
}
