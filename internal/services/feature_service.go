package services

import (
	"fmt"
	"strings"

	"shaqyru/internal/apperrors"
	"shaqyru/internal/models"
	"shaqyru/internal/repositories"
)

// featureMarkers maps each interactive feature to the textual markers scanned
// for in the document. Matching is case-insensitive substring containment;
// phrasing covers Kazakh, Russian and English.
var featureMarkers = map[string][]string{
	"attendance": {"rsvp", "подтверд", "присутств", "придете", "придёте", "келетін", "қатысу", "attendance"},
	"guestbook":  {"гостевая книга", "пожелани", "поздравлени", "тілектер", "guestbook"},
	"gifts":      {"подарк", "подарок", "сыйлық", "wishlist", "вишлист", "gift"},
	"schedule":   {"программа", "расписание", "тайминг", "бағдарлама", "schedule", "timeline"},
	"gallery":    {"галерея", "фотографи", "фото", "gallery", "carousel"},
	"dresscode":  {"дресс-код", "дресс код", "киім үлгісі", "dress code", "dresscode"},
	"map":        {"как добраться", "карта", "адрес", "мекенжай", "2gis", "google.com/maps", "yandex.ru/maps"},
}

// RecordCounts carries the per-feature record tallies that complement the
// textual scan.
type RecordCounts struct {
	Attendance int64
	Guestbook  int64
	Gifts      int64
}

// DetectFeatures reports which interactive features an invitation exposes.
// A feature is present when the document carries its markers OR at least one
// related record exists: markers alone suffice before any guest interacted,
// and records keep a feature alive even after an edit rephrased the markup.
// An invitation without an AI-authored document reports every feature, so
// the dashboard falls back to showing all management panels.
func DetectFeatures(document string, counts RecordCounts) models.FeaturePresence {
	if strings.TrimSpace(document) == "" {
		return models.FeaturePresence{
			Attendance:   true,
			Guestbook:    true,
			GiftList:     true,
			Schedule:     true,
			PhotoGallery: true,
			DressCode:    true,
			LocationMap:  true,
		}
	}

	lowered := strings.ToLower(document)
	has := func(feature string) bool {
		return containsAny(lowered, featureMarkers[feature])
	}

	return models.FeaturePresence{
		Attendance:   has("attendance") || counts.Attendance > 0,
		Guestbook:    has("guestbook") || counts.Guestbook > 0,
		GiftList:     has("gifts") || counts.Gifts > 0,
		Schedule:     has("schedule"),
		PhotoGallery: has("gallery"),
		DressCode:    has("dresscode"),
		LocationMap:  has("map"),
	}
}

// FeatureService builds the owner-facing dashboard read model.
type FeatureService interface {
	Presence(invitationID uint) (models.FeaturePresence, error)
	Dashboard(invitationID uint) (*models.Dashboard, error)
}

type featureService struct {
	invitations repositories.InvitationRepository
	attendance  repositories.AttendanceRepository
	gifts       repositories.GiftRepository
	guestbook   repositories.GuestbookRepository
}

func NewFeatureService(
	invitations repositories.InvitationRepository,
	attendance repositories.AttendanceRepository,
	gifts repositories.GiftRepository,
	guestbook repositories.GuestbookRepository,
) FeatureService {
	return &featureService{
		invitations: invitations,
		attendance:  attendance,
		gifts:       gifts,
		guestbook:   guestbook,
	}
}

func (s *featureService) Presence(invitationID uint) (models.FeaturePresence, error) {
	inv, counts, err := s.load(invitationID)
	if err != nil {
		return models.FeaturePresence{}, err
	}
	return DetectFeatures(inv.Document, counts), nil
}

func (s *featureService) Dashboard(invitationID uint) (*models.Dashboard, error) {
	inv, counts, err := s.load(invitationID)
	if err != nil {
		return nil, err
	}

	responses, err := s.attendance.ListByInvitation(invitationID)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	giftItems, err := s.gifts.ListItems(invitationID)
	if err != nil {
		return nil, fmt.Errorf("list gifts: %w", err)
	}
	reservations, err := s.gifts.ListReservations(invitationID)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	messages, err := s.guestbook.ListByInvitation(invitationID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	pending, err := s.guestbook.CountPending(invitationID)
	if err != nil {
		return nil, fmt.Errorf("count pending messages: %w", err)
	}

	return &models.Dashboard{
		InvitationID:    invitationID,
		Features:        DetectFeatures(inv.Document, counts),
		Attendance:      summarizeAttendance(responses),
		Responses:       responses,
		Gifts:           giftItems,
		Reservations:    reservations,
		Messages:        messages,
		PendingMessages: int(pending),
	}, nil
}

func (s *featureService) load(invitationID uint) (*models.Invitation, RecordCounts, error) {
	inv, err := s.invitations.GetByID(invitationID)
	if err != nil {
		return nil, RecordCounts{}, fmt.Errorf("load invitation: %w", err)
	}
	if inv == nil {
		return nil, RecordCounts{}, &apperrors.NotFoundError{Entity: "invitation", Key: fmt.Sprint(invitationID)}
	}

	attendanceCount, err := s.attendance.CountByInvitation(invitationID)
	if err != nil {
		return nil, RecordCounts{}, fmt.Errorf("count attendance: %w", err)
	}
	guestbookCount, err := s.guestbook.CountByInvitation(invitationID)
	if err != nil {
		return nil, RecordCounts{}, fmt.Errorf("count messages: %w", err)
	}
	giftCount, err := s.gifts.CountReservations(invitationID)
	if err != nil {
		return nil, RecordCounts{}, fmt.Errorf("count reservations: %w", err)
	}

	return inv, RecordCounts{
		Attendance: attendanceCount,
		Guestbook:  guestbookCount,
		Gifts:      giftCount,
	}, nil
}

func summarizeAttendance(responses []models.AttendanceResponse) models.AttendanceSummary {
	var sum models.AttendanceSummary
	for _, r := range responses {
		sum.TotalResponses++
		switch r.Status {
		case models.AttendanceDeclined:
			sum.Declined++
		case models.AttendanceConfirmedPlusOne:
			sum.PlusOne++
			sum.TotalGuests += r.GuestCount
		case models.AttendanceConfirmedWithPartner:
			sum.WithPartner++
			sum.TotalGuests += r.GuestCount
		default:
			sum.Confirmed++
			sum.TotalGuests += r.GuestCount
		}
	}
	return sum
}
