package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"shaqyru/internal/apperrors"
	"shaqyru/internal/models"
)

func newInvitationFixture(t *testing.T) (InvitationService, *memInvitationRepo, *memGiftRepo, *memGuestbookRepo, uint) {
	t.Helper()
	invitations := newMemInvitationRepo()
	inv := &models.Invitation{OwnerID: 1, Slug: "toi", Title: "Той"}
	if err := invitations.Create(inv); err != nil {
		t.Fatal(err)
	}
	gifts := newMemGiftRepo()
	guestbook := &memGuestbookRepo{}
	return NewInvitationService(invitations, gifts, guestbook), invitations, gifts, guestbook, inv.ID
}

func TestInvitationOwnershipEnforced(t *testing.T) {
	svc, _, _, _, id := newInvitationFixture(t)

	_, err := svc.Get(2, id)
	var fe *apperrors.ForbiddenError
	assert.True(t, errors.As(err, &fe))

	_, err = svc.AddGiftItem(2, id, "Самовар")
	assert.True(t, errors.As(err, &fe))

	err = svc.ApproveMessage(2, id, 1)
	assert.True(t, errors.As(err, &fe))
}

func TestInvitationGetUnknown(t *testing.T) {
	svc, _, _, _, _ := newInvitationFixture(t)

	_, err := svc.Get(1, 42)
	var nfe *apperrors.NotFoundError
	assert.True(t, errors.As(err, &nfe))
}

func TestAddGiftItem(t *testing.T) {
	svc, _, gifts, _, id := newInvitationFixture(t)

	item, err := svc.AddGiftItem(1, id, "Самовар")
	assert.NoError(t, err)
	assert.NotZero(t, item.ID)

	// Duplicate names collide case-insensitively.
	_, err = svc.AddGiftItem(1, id, "самовар")
	assert.True(t, apperrors.IsConflict(err))

	_, err = svc.AddGiftItem(1, id, "   ")
	var ve *apperrors.ValidationError
	assert.True(t, errors.As(err, &ve))

	items, _ := gifts.ListItems(id)
	assert.Len(t, items, 1)
}

func TestReleaseGiftItem(t *testing.T) {
	svc, _, gifts, _, id := newInvitationFixture(t)

	item, err := svc.AddGiftItem(1, id, "Сервиз")
	assert.NoError(t, err)
	assert.NoError(t, gifts.Reserve(item, &models.GiftReservation{
		InvitationID: id, GiftItemID: item.ID, Name: "Айгуль",
	}))

	assert.NoError(t, svc.ReleaseGiftItem(1, id, item.ID))

	got, _ := gifts.GetItem(id, item.ID)
	assert.False(t, got.Reserved)
	n, _ := gifts.CountReservations(id)
	assert.Zero(t, n)
}

func TestGuestbookModeration(t *testing.T) {
	svc, _, _, guestbook, id := newInvitationFixture(t)

	msg := &models.GuestbookMessage{InvitationID: id, Author: "Дана", Body: "Құтты болсын!"}
	assert.NoError(t, guestbook.Create(msg))

	assert.NoError(t, svc.ApproveMessage(1, id, msg.ID))
	got, _ := guestbook.GetByID(id, msg.ID)
	assert.True(t, got.Approved)

	assert.NoError(t, svc.DeleteMessage(1, id, msg.ID))
	got, _ = guestbook.GetByID(id, msg.ID)
	assert.Nil(t, got)

	err := svc.ApproveMessage(1, id, 99)
	var nfe *apperrors.NotFoundError
	assert.True(t, errors.As(err, &nfe))
}
