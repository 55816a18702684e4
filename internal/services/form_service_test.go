package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"shaqyru/internal/apperrors"
	"shaqyru/internal/models"
)

type formFixture struct {
	svc        FormService
	attendance *memAttendanceRepo
	gifts      *memGiftRepo
	guestbook  *memGuestbookRepo
	slug       string
}

func newFormFixture(t *testing.T) *formFixture {
	t.Helper()
	invitations := newMemInvitationRepo()
	inv := &models.Invitation{OwnerID: 1, Slug: "toi-aseli-damira", Title: "Свадьба"}
	if err := invitations.Create(inv); err != nil {
		t.Fatal(err)
	}

	f := &formFixture{
		attendance: &memAttendanceRepo{},
		gifts:      newMemGiftRepo(),
		guestbook:  &memGuestbookRepo{},
		slug:       inv.Slug,
	}
	f.svc = NewFormService(invitations, f.attendance, f.gifts, f.guestbook, zerolog.Nop())
	return f
}

func (f *formFixture) submit(t *testing.T, kind FormKind, payload map[string]string) *SubmissionResult {
	t.Helper()
	res, err := f.svc.Submit(context.Background(), f.slug, kind, payload)
	if err != nil {
		t.Fatalf("submit %s: %v", kind, err)
	}
	return res
}

func TestSubmitAttendancePlusOne(t *testing.T) {
	f := newFormFixture(t)

	res := f.submit(t, FormAttendance, map[string]string{
		"Имя":               "Айгуль",
		"Количество гостей": "2",
	})
	assert.Contains(t, res.Message, "Айгуль")

	rows, _ := f.attendance.ListByInvitation(1)
	if assert.Len(t, rows, 1) {
		assert.Equal(t, "Айгуль", rows[0].Name)
		assert.Equal(t, 2, rows[0].GuestCount)
		assert.Equal(t, models.AttendanceConfirmedPlusOne, rows[0].Status)
	}
}

func TestSubmitAttendanceKeyCaseInsensitive(t *testing.T) {
	f := newFormFixture(t)

	f.submit(t, FormAttendance, map[string]string{"ИМЯ": "Болат"})
	f.submit(t, FormAttendance, map[string]string{"имя гостя": "Дана"})

	rows, _ := f.attendance.ListByInvitation(1)
	if assert.Len(t, rows, 2) {
		assert.Equal(t, "Болат", rows[0].Name)
		assert.Equal(t, "Дана", rows[1].Name)
	}
}

func TestSubmitAttendanceDefaults(t *testing.T) {
	f := newFormFixture(t)

	f.submit(t, FormAttendance, map[string]string{"комментарий": "будем вовремя"})

	rows, _ := f.attendance.ListByInvitation(1)
	if assert.Len(t, rows, 1) {
		assert.Equal(t, defaultGuestName, rows[0].Name)
		assert.Equal(t, 1, rows[0].GuestCount)
		assert.Equal(t, models.AttendanceConfirmed, rows[0].Status)
	}
}

func TestSubmitAttendanceDecline(t *testing.T) {
	f := newFormFixture(t)

	res := f.submit(t, FormAttendance, map[string]string{
		"Имя":   "Марат",
		"Ответ": "К сожалению, не приду",
	})
	assert.Contains(t, res.Message, "Жаль")

	rows, _ := f.attendance.ListByInvitation(1)
	if assert.Len(t, rows, 1) {
		assert.Equal(t, models.AttendanceDeclined, rows[0].Status)
	}
}

func TestSubmitAttendanceNeverUpdatesPriorAnswers(t *testing.T) {
	f := newFormFixture(t)

	f.submit(t, FormAttendance, map[string]string{"Имя": "Айгуль"})
	f.submit(t, FormAttendance, map[string]string{"Имя": "Айгуль", "Количество гостей": "3"})

	rows, _ := f.attendance.ListByInvitation(1)
	assert.Len(t, rows, 2)
}

func TestSubmitGiftByNameCreatesItem(t *testing.T) {
	f := newFormFixture(t)

	res := f.submit(t, FormGift, map[string]string{
		"Имя":     "Айгуль",
		"Подарок": "Самовар",
	})
	assert.Contains(t, res.Message, "Самовар")

	item, _ := f.gifts.FindItemByName(1, "самовар")
	if assert.NotNil(t, item) {
		assert.True(t, item.Reserved)
	}
}

func TestSubmitGiftAlreadyReserved(t *testing.T) {
	f := newFormFixture(t)
	f.submit(t, FormGift, map[string]string{"Имя": "Айгуль", "Подарок": "Самовар"})

	_, err := f.svc.Submit(context.Background(), f.slug, FormGift,
		map[string]string{"Имя": "Болат", "Подарок": "самовар"})
	assert.True(t, apperrors.IsConflict(err))
}

func TestSubmitGiftByID(t *testing.T) {
	f := newFormFixture(t)
	item := &models.GiftItem{InvitationID: 1, Name: "Сервиз"}
	assert.NoError(t, f.gifts.CreateItem(item))

	f.submit(t, FormGift, map[string]string{"Имя": "Дана", "gift_id": "1"})

	got, _ := f.gifts.GetItem(1, item.ID)
	if assert.NotNil(t, got) {
		assert.True(t, got.Reserved)
	}
}

func TestSubmitGiftWithoutReference(t *testing.T) {
	f := newFormFixture(t)

	_, err := f.svc.Submit(context.Background(), f.slug, FormGift, map[string]string{"Имя": "Дана"})
	var ve *apperrors.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestSubmitMessageStartsUnapproved(t *testing.T) {
	f := newFormFixture(t)

	f.submit(t, FormMessage, map[string]string{
		"Имя":       "Айгуль",
		"Пожелание": "Бақытты болыңдар!",
	})

	rows, _ := f.guestbook.ListByInvitation(1)
	if assert.Len(t, rows, 1) {
		assert.Equal(t, "Айгуль", rows[0].Author)
		assert.Equal(t, "Бақытты болыңдар!", rows[0].Body)
		assert.False(t, rows[0].Approved)
	}
}

func TestSubmitMessageEmptyBody(t *testing.T) {
	f := newFormFixture(t)

	_, err := f.svc.Submit(context.Background(), f.slug, FormMessage, map[string]string{"Имя": "Айгуль"})
	var ve *apperrors.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestSubmitRejectsEmptyPayload(t *testing.T) {
	f := newFormFixture(t)

	_, err := f.svc.Submit(context.Background(), f.slug, FormAttendance, nil)
	var ve *apperrors.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestSubmitUnknownSlug(t *testing.T) {
	f := newFormFixture(t)

	_, err := f.svc.Submit(context.Background(), "no-such-slug", FormAttendance,
		map[string]string{"Имя": "Айгуль"})
	var nfe *apperrors.NotFoundError
	assert.True(t, errors.As(err, &nfe))
}

func TestResolveFieldPrefersExactMatch(t *testing.T) {
	payload := map[string]string{
		"Полное имя гостя": "длинный ключ",
		"Имя":              "Айгуль",
	}
	got, ok := resolveField(payload, nameAliases)
	if !ok || got != "Айгуль" {
		t.Fatalf("expected the exact key to win, got %q", got)
	}
}

func TestResolveGuestCount(t *testing.T) {
	cases := []struct {
		name     string
		payload  map[string]string
		expected int
	}{
		{"plain number", map[string]string{"Количество гостей": "2"}, 2},
		{"number with words", map[string]string{"гостей": "3 человека"}, 3},
		{"missing", map[string]string{"Имя": "Айгуль"}, 1},
		{"garbage", map[string]string{"Количество гостей": "много"}, 1},
		{"zero", map[string]string{"Количество гостей": "0"}, 1},
	}

	for _, tc := range cases {
		if got := resolveGuestCount(tc.payload); got != tc.expected {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.expected, got)
		}
	}
}

func TestClassifyAttendance(t *testing.T) {
	cases := []struct {
		name     string
		token    string
		count    int
		expected models.AttendanceStatus
	}{
		{"explicit decline", "Нет, не приду", 1, models.AttendanceDeclined},
		{"decline beats count", "не смогу", 3, models.AttendanceDeclined},
		{"with partner", "Приду с женой", 2, models.AttendanceConfirmedWithPartner},
		{"plus one token", "плюс один", 2, models.AttendanceConfirmedPlusOne},
		{"count implies company", "", 2, models.AttendanceConfirmedPlusOne},
		{"kazakh decline", "келмеймін", 1, models.AttendanceDeclined},
		{"plain yes", "приду", 1, models.AttendanceConfirmed},
		{"no token single guest", "", 1, models.AttendanceConfirmed},
	}

	for _, tc := range cases {
		if got := classifyAttendance(tc.token, tc.count); got != tc.expected {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.expected, got)
		}
	}
}
