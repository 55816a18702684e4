package models

import "time"

// Invitation is the main record of a digital invitation. Document holds the
// full self-contained page as one text blob; an empty Document means the
// invitation was not AI-authored. Each edit replaces the blob wholesale.
type Invitation struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	OwnerID  uint   `gorm:"index"`
	Slug     string `gorm:"size:160;uniqueIndex;not null"`
	Title    string `gorm:"size:255"`
	Document string `gorm:"type:text"`
}

// GiftItem is one entry of an invitation's gift list. Items authored only by
// name in a guest submission are created on the fly before being reserved.
type GiftItem struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	InvitationID uint   `gorm:"index;not null"`
	Name         string `gorm:"size:255;not null"`
	Reserved     bool   `gorm:"default:false"`
}
