package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"shaqyru/internal/apperrors"
	"shaqyru/internal/models"
	"shaqyru/internal/repositories"
)

// FormKind tags a guest submission.
type FormKind string

const (
	FormAttendance FormKind = "attendance"
	FormGift       FormKind = "gift"
	FormMessage    FormKind = "message"
)

// defaultGuestName is used when no name field resolves from the payload.
const defaultGuestName = "Гость"

// SubmissionResult is the guest-facing confirmation for an accepted form.
type SubmissionResult struct {
	Message string `json:"message"`
}

// FormService canonicalizes schema-less guest form submissions into typed
// records. Any key naming is accepted; resolution runs through the ranked
// alias tables in form_aliases.go.
type FormService interface {
	Submit(ctx context.Context, slug string, kind FormKind, payload map[string]string) (*SubmissionResult, error)
}

type formService struct {
	invitations repositories.InvitationRepository
	attendance  repositories.AttendanceRepository
	gifts       repositories.GiftRepository
	guestbook   repositories.GuestbookRepository
	logger      zerolog.Logger
}

func NewFormService(
	invitations repositories.InvitationRepository,
	attendance repositories.AttendanceRepository,
	gifts repositories.GiftRepository,
	guestbook repositories.GuestbookRepository,
	logger zerolog.Logger,
) FormService {
	return &formService{
		invitations: invitations,
		attendance:  attendance,
		gifts:       gifts,
		guestbook:   guestbook,
		logger:      logger,
	}
}

func (s *formService) Submit(ctx context.Context, slug string, kind FormKind, payload map[string]string) (*SubmissionResult, error) {
	if len(payload) == 0 {
		return nil, &apperrors.ValidationError{Field: "payload", Reason: "empty submission"}
	}

	inv, err := s.invitations.GetBySlug(slug)
	if err != nil {
		return nil, fmt.Errorf("resolve invitation: %w", err)
	}
	if inv == nil {
		return nil, &apperrors.NotFoundError{Entity: "invitation", Key: slug}
	}

	switch kind {
	case FormAttendance:
		return s.submitAttendance(inv, payload)
	case FormGift:
		return s.submitGift(inv, payload)
	case FormMessage:
		return s.submitMessage(inv, payload)
	default:
		return nil, &apperrors.ValidationError{Field: "formType", Reason: fmt.Sprintf("unknown form kind %q", kind)}
	}
}

// submitAttendance always creates a new record; one submission is one answer
// and prior answers are never updated.
func (s *formService) submitAttendance(inv *models.Invitation, payload map[string]string) (*SubmissionResult, error) {
	guestCount := resolveGuestCount(payload)
	statusToken, _ := resolveField(payload, statusAliases)

	resp := &models.AttendanceResponse{
		InvitationID: inv.ID,
		Name:         resolveFieldOr(payload, nameAliases, defaultGuestName),
		Phone:        resolveFieldOr(payload, phoneAliases, ""),
		Email:        resolveFieldOr(payload, emailAliases, ""),
		GuestCount:   guestCount,
		DietaryNotes: resolveFieldOr(payload, dietaryAliases, ""),
		Status:       classifyAttendance(statusToken, guestCount),
	}
	if err := s.attendance.Create(resp); err != nil {
		return nil, fmt.Errorf("save attendance: %w", err)
	}

	if resp.Status == models.AttendanceDeclined {
		return &SubmissionResult{Message: "Жаль, что вы не сможете прийти. Спасибо за ответ!"}, nil
	}
	return &SubmissionResult{Message: fmt.Sprintf("Спасибо, %s! Ваше присутствие подтверждено.", resp.Name)}, nil
}

// submitGift resolves the item by id or by free-text name, creating the item
// on the fly when a name has no case-insensitive match.
func (s *formService) submitGift(inv *models.Invitation, payload map[string]string) (*SubmissionResult, error) {
	item, err := s.resolveGiftItem(inv, payload)
	if err != nil {
		return nil, err
	}
	if item.Reserved {
		return nil, &apperrors.ConflictError{Entity: "gift reservation", Key: item.Name}
	}

	res := &models.GiftReservation{
		InvitationID: inv.ID,
		GiftItemID:   item.ID,
		Name:         resolveFieldOr(payload, nameAliases, defaultGuestName),
		Phone:        resolveFieldOr(payload, phoneAliases, ""),
		Email:        resolveFieldOr(payload, emailAliases, ""),
	}
	if err := s.gifts.Reserve(item, res); err != nil {
		return nil, fmt.Errorf("reserve gift: %w", err)
	}
	return &SubmissionResult{Message: fmt.Sprintf("Подарок «%s» закреплён за вами. Спасибо!", item.Name)}, nil
}

func (s *formService) resolveGiftItem(inv *models.Invitation, payload map[string]string) (*models.GiftItem, error) {
	if rawID, ok := resolveField(payload, giftIDAliases); ok && rawID != "" {
		var id uint
		if _, err := fmt.Sscanf(rawID, "%d", &id); err == nil {
			item, err := s.gifts.GetItem(inv.ID, id)
			if err != nil {
				return nil, fmt.Errorf("load gift item: %w", err)
			}
			if item == nil {
				return nil, &apperrors.NotFoundError{Entity: "gift item", Key: rawID}
			}
			return item, nil
		}
	}

	name, ok := resolveField(payload, giftNameAliases)
	if !ok || name == "" {
		return nil, &apperrors.ValidationError{Field: "gift", Reason: "no item reference in submission"}
	}

	item, err := s.gifts.FindItemByName(inv.ID, name)
	if err != nil {
		return nil, fmt.Errorf("find gift item: %w", err)
	}
	if item == nil {
		item = &models.GiftItem{InvitationID: inv.ID, Name: name}
		if err := s.gifts.CreateItem(item); err != nil {
			return nil, fmt.Errorf("create gift item: %w", err)
		}
	}
	return item, nil
}

// submitMessage rejects an empty body: unlike the other adapters there is
// nothing sensible to default it to. Messages start unapproved.
func (s *formService) submitMessage(inv *models.Invitation, payload map[string]string) (*SubmissionResult, error) {
	body, _ := resolveField(payload, messageAliases)
	if body == "" {
		return nil, &apperrors.ValidationError{Field: "message", Reason: "empty message body"}
	}

	msg := &models.GuestbookMessage{
		InvitationID: inv.ID,
		Author:       resolveFieldOr(payload, nameAliases, defaultGuestName),
		Body:         body,
		Approved:     false,
	}
	if err := s.guestbook.Create(msg); err != nil {
		return nil, fmt.Errorf("save message: %w", err)
	}
	return &SubmissionResult{Message: "Ваше пожелание отправлено и появится после одобрения."}, nil
}
