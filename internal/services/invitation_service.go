package services

import (
	"fmt"
	"strings"

	"shaqyru/internal/apperrors"
	"shaqyru/internal/models"
	"shaqyru/internal/repositories"
)

// InvitationService covers the owner-facing management operations: gift list
// upkeep and guestbook moderation. Every mutation verifies ownership first.
type InvitationService interface {
	Get(ownerID, invitationID uint) (*models.Invitation, error)
	List(ownerID uint) ([]models.Invitation, error)
	AddGiftItem(ownerID, invitationID uint, name string) (*models.GiftItem, error)
	RemoveGiftItem(ownerID, invitationID, itemID uint) error
	ReleaseGiftItem(ownerID, invitationID, itemID uint) error
	ApproveMessage(ownerID, invitationID, msgID uint) error
	DeleteMessage(ownerID, invitationID, msgID uint) error
}

type invitationService struct {
	invitations repositories.InvitationRepository
	gifts       repositories.GiftRepository
	guestbook   repositories.GuestbookRepository
}

func NewInvitationService(
	invitations repositories.InvitationRepository,
	gifts repositories.GiftRepository,
	guestbook repositories.GuestbookRepository,
) InvitationService {
	return &invitationService{invitations: invitations, gifts: gifts, guestbook: guestbook}
}

func (s *invitationService) Get(ownerID, invitationID uint) (*models.Invitation, error) {
	return s.owned(ownerID, invitationID)
}

func (s *invitationService) List(ownerID uint) ([]models.Invitation, error) {
	return s.invitations.ListByOwner(ownerID)
}

func (s *invitationService) AddGiftItem(ownerID, invitationID uint, name string) (*models.GiftItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &apperrors.ValidationError{Field: "name", Reason: "required"}
	}
	if _, err := s.owned(ownerID, invitationID); err != nil {
		return nil, err
	}

	if existing, err := s.gifts.FindItemByName(invitationID, name); err != nil {
		return nil, fmt.Errorf("find gift item: %w", err)
	} else if existing != nil {
		return nil, &apperrors.ConflictError{Entity: "gift item", Key: name}
	}

	item := &models.GiftItem{InvitationID: invitationID, Name: name}
	if err := s.gifts.CreateItem(item); err != nil {
		return nil, fmt.Errorf("create gift item: %w", err)
	}
	return item, nil
}

func (s *invitationService) RemoveGiftItem(ownerID, invitationID, itemID uint) error {
	if _, err := s.owned(ownerID, invitationID); err != nil {
		return err
	}
	return s.gifts.DeleteItem(invitationID, itemID)
}

func (s *invitationService) ReleaseGiftItem(ownerID, invitationID, itemID uint) error {
	if _, err := s.owned(ownerID, invitationID); err != nil {
		return err
	}
	return s.gifts.Release(invitationID, itemID)
}

func (s *invitationService) ApproveMessage(ownerID, invitationID, msgID uint) error {
	if _, err := s.owned(ownerID, invitationID); err != nil {
		return err
	}
	msg, err := s.guestbook.GetByID(invitationID, msgID)
	if err != nil {
		return fmt.Errorf("load message: %w", err)
	}
	if msg == nil {
		return &apperrors.NotFoundError{Entity: "guestbook message", Key: fmt.Sprint(msgID)}
	}
	return s.guestbook.SetApproved(invitationID, msgID, true)
}

func (s *invitationService) DeleteMessage(ownerID, invitationID, msgID uint) error {
	if _, err := s.owned(ownerID, invitationID); err != nil {
		return err
	}
	return s.guestbook.DeleteByID(invitationID, msgID)
}

func (s *invitationService) owned(ownerID, invitationID uint) (*models.Invitation, error) {
	inv, err := s.invitations.GetByID(invitationID)
	if err != nil {
		return nil, fmt.Errorf("load invitation: %w", err)
	}
	if inv == nil {
		return nil, &apperrors.NotFoundError{Entity: "invitation", Key: fmt.Sprint(invitationID)}
	}
	if inv.OwnerID != ownerID {
		return nil, &apperrors.ForbiddenError{Entity: "invitation"}
	}
	return inv, nil
}
