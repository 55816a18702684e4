package models

import (
	"encoding/json"
	"time"
)

// TurnRole identifies the author of a conversation turn.
type TurnRole string

const (
	TurnUser      TurnRole = "user"
	TurnAssistant TurnRole = "assistant"
)

// ConversationTurn is one exchange in a generation session. Turns are
// append-only and ordered.
type ConversationTurn struct {
	Role      TurnRole  `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// GenerationSession persists one user's in-progress conversation together
// with the most recently extracted document. InvitationID stays zero until
// the autosave coordinator has created the draft.
type GenerationSession struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	InvitationID uint   `gorm:"index"`
	OwnerID      uint   `gorm:"index"`
	Provider     string `gorm:"size:32;not null"`
	TurnsJSON    string `gorm:"type:text"`
	Document     string `gorm:"type:text"`

	// GenerationCount is the session's free-turn counter: how many documents
	// the assistant has produced. Tierless invitations are capped on it.
	GenerationCount int `gorm:"default:0"`
}

// Turns decodes the persisted conversation history. A missing or corrupt
// payload yields an empty history rather than an error; the session can
// always continue from a fresh conversation.
func (s *GenerationSession) Turns() []ConversationTurn {
	if s.TurnsJSON == "" {
		return nil
	}
	var turns []ConversationTurn
	if err := json.Unmarshal([]byte(s.TurnsJSON), &turns); err != nil {
		return nil
	}
	return turns
}

// SetTurns encodes the conversation history onto the row.
func (s *GenerationSession) SetTurns(turns []ConversationTurn) error {
	data, err := json.Marshal(turns)
	if err != nil {
		return err
	}
	s.TurnsJSON = string(data)
	return nil
}

// HasDocument reports whether the session currently owns a document.
func (s *GenerationSession) HasDocument() bool { return s.Document != "" }

// UserTurnCount counts the user-authored turns in the history.
func UserTurnCount(turns []ConversationTurn) int {
	n := 0
	for _, t := range turns {
		if t.Role == TurnUser {
			n++
		}
	}
	return n
}
