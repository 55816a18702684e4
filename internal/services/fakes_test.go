package services

import (
	"strings"
	"sync"

	"shaqyru/internal/apperrors"
	"shaqyru/internal/models"
)

// In-memory repository fakes shared by the service tests. They mirror the
// sqlite-backed implementations closely enough to exercise the services'
// control flow, including slug uniqueness.

type memInvitationRepo struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]models.Invitation
}

func newMemInvitationRepo() *memInvitationRepo {
	return &memInvitationRepo{rows: make(map[uint]models.Invitation)}
}

func (r *memInvitationRepo) Create(inv *models.Invitation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.Slug == inv.Slug {
			return &apperrors.ConflictError{Entity: "invitation slug", Key: inv.Slug}
		}
	}
	r.nextID++
	inv.ID = r.nextID
	r.rows[inv.ID] = *inv
	return nil
}

func (r *memInvitationRepo) GetByID(id uint) (*models.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (r *memInvitationRepo) GetBySlug(slug string) (*models.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.Slug == slug {
			out := row
			return &out, nil
		}
	}
	return nil, nil
}

func (r *memInvitationRepo) UpdateDocument(id uint, document, title, slug string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil
	}
	row.Document = document
	if title != "" {
		row.Title = title
	}
	if slug != "" {
		row.Slug = slug
	}
	r.rows[id] = row
	return nil
}

func (r *memInvitationRepo) ListByOwner(ownerID uint) ([]models.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Invitation
	for _, row := range r.rows {
		if row.OwnerID == ownerID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *memInvitationRepo) DeleteByID(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, id)
	return nil
}

type memAttendanceRepo struct {
	mu   sync.Mutex
	rows []models.AttendanceResponse
}

func (r *memAttendanceRepo) Create(resp *models.AttendanceResponse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	resp.ID = uint(len(r.rows) + 1)
	r.rows = append(r.rows, *resp)
	return nil
}

func (r *memAttendanceRepo) ListByInvitation(invitationID uint) ([]models.AttendanceResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.AttendanceResponse
	for _, row := range r.rows {
		if row.InvitationID == invitationID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *memAttendanceRepo) CountByInvitation(invitationID uint) (int64, error) {
	rows, _ := r.ListByInvitation(invitationID)
	return int64(len(rows)), nil
}

type memGiftRepo struct {
	mu           sync.Mutex
	nextID       uint
	items        map[uint]models.GiftItem
	reservations []models.GiftReservation
}

func newMemGiftRepo() *memGiftRepo {
	return &memGiftRepo{items: make(map[uint]models.GiftItem)}
}

func (r *memGiftRepo) ListItems(invitationID uint) ([]models.GiftItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.GiftItem
	for _, item := range r.items {
		if item.InvitationID == invitationID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *memGiftRepo) GetItem(invitationID, itemID uint) (*models.GiftItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[itemID]
	if !ok || item.InvitationID != invitationID {
		return nil, nil
	}
	return &item, nil
}

func (r *memGiftRepo) FindItemByName(invitationID uint, name string) (*models.GiftItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	want := strings.ToLower(strings.TrimSpace(name))
	for _, item := range r.items {
		if item.InvitationID == invitationID && strings.ToLower(item.Name) == want {
			out := item
			return &out, nil
		}
	}
	return nil, nil
}

func (r *memGiftRepo) CreateItem(item *models.GiftItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	item.ID = r.nextID
	r.items[item.ID] = *item
	return nil
}

func (r *memGiftRepo) DeleteItem(invitationID, itemID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, itemID)
	return nil
}

func (r *memGiftRepo) Reserve(item *models.GiftItem, res *models.GiftReservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row := r.items[item.ID]
	row.Reserved = true
	r.items[item.ID] = row
	res.ID = uint(len(r.reservations) + 1)
	r.reservations = append(r.reservations, *res)
	return nil
}

func (r *memGiftRepo) Release(invitationID, itemID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.items[itemID]
	if ok {
		row.Reserved = false
		r.items[itemID] = row
	}
	kept := r.reservations[:0]
	for _, res := range r.reservations {
		if res.GiftItemID != itemID {
			kept = append(kept, res)
		}
	}
	r.reservations = kept
	return nil
}

func (r *memGiftRepo) ListReservations(invitationID uint) ([]models.GiftReservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.GiftReservation
	for _, res := range r.reservations {
		if res.InvitationID == invitationID {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r *memGiftRepo) CountReservations(invitationID uint) (int64, error) {
	out, _ := r.ListReservations(invitationID)
	return int64(len(out)), nil
}

type memGuestbookRepo struct {
	mu   sync.Mutex
	rows []models.GuestbookMessage
}

func (r *memGuestbookRepo) Create(msg *models.GuestbookMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg.ID = uint(len(r.rows) + 1)
	r.rows = append(r.rows, *msg)
	return nil
}

func (r *memGuestbookRepo) GetByID(invitationID, msgID uint) (*models.GuestbookMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.InvitationID == invitationID && row.ID == msgID {
			out := row
			return &out, nil
		}
	}
	return nil, nil
}

func (r *memGuestbookRepo) ListByInvitation(invitationID uint) ([]models.GuestbookMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.GuestbookMessage
	for _, row := range r.rows {
		if row.InvitationID == invitationID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *memGuestbookRepo) CountByInvitation(invitationID uint) (int64, error) {
	rows, _ := r.ListByInvitation(invitationID)
	return int64(len(rows)), nil
}

func (r *memGuestbookRepo) CountPending(invitationID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, row := range r.rows {
		if row.InvitationID == invitationID && !row.Approved {
			n++
		}
	}
	return n, nil
}

func (r *memGuestbookRepo) SetApproved(invitationID, msgID uint, approved bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, row := range r.rows {
		if row.InvitationID == invitationID && row.ID == msgID {
			r.rows[i].Approved = approved
		}
	}
	return nil
}

func (r *memGuestbookRepo) DeleteByID(invitationID, msgID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.rows[:0]
	for _, row := range r.rows {
		if !(row.InvitationID == invitationID && row.ID == msgID) {
			kept = append(kept, row)
		}
	}
	r.rows = kept
	return nil
}
