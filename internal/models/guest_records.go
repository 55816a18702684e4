package models

import "time"

// AttendanceStatus is the closed set of canonical attendance outcomes.
type AttendanceStatus string

const (
	AttendanceDeclined             AttendanceStatus = "declined"
	AttendanceConfirmed            AttendanceStatus = "confirmed"
	AttendanceConfirmedPlusOne     AttendanceStatus = "confirmed_plus_one"
	AttendanceConfirmedWithPartner AttendanceStatus = "confirmed_with_partner"
)

// AttendanceResponse is one guest's answer to the attendance form. One
// submission always creates one record; prior answers are never updated.
type AttendanceResponse struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	InvitationID uint             `gorm:"index;not null"`
	Name         string           `gorm:"size:150"`
	Phone        string           `gorm:"size:30"`
	Email        string           `gorm:"size:150"`
	GuestCount   int              `gorm:"default:1"`
	DietaryNotes string           `gorm:"type:text"`
	Status       AttendanceStatus `gorm:"type:varchar(30);not null;default:'confirmed';index"`
}

// GiftReservation marks a gift item as taken by a guest.
type GiftReservation struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	InvitationID uint   `gorm:"index;not null"`
	GiftItemID   uint   `gorm:"index;not null"`
	Name         string `gorm:"size:150"`
	Phone        string `gorm:"size:30"`
	Email        string `gorm:"size:150"`
}

// GuestbookMessage is a guest's note, hidden until the owner approves it.
type GuestbookMessage struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	InvitationID uint   `gorm:"index;not null"`
	Author       string `gorm:"size:150"`
	Body         string `gorm:"type:text;not null"`
	Approved     bool   `gorm:"default:false;index"`
}
