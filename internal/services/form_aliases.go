package services

import (
	"sort"
	"strconv"
	"strings"

	"shaqyru/internal/models"
)

// The generative model authors its own guest-facing field names, in Kazakh
// or Russian with free wording, so submissions carry no fixed schema. Each
// canonical field resolves through a ranked alias table: one pass of exact
// case-insensitive key matches in alias order, then one pass of substring
// matches in alias order; the first hit wins.

var (
	nameAliases       = []string{"имя", "фио", "аты", "атыңыз", "есімі", "name", "имя гостя"}
	phoneAliases      = []string{"телефон", "номер телефона", "тел", "phone", "номер"}
	emailAliases      = []string{"email", "e-mail", "почта", "пошта", "электронная почта"}
	guestCountAliases = []string{"количество гостей", "гостей", "қонақтар саны", "адам саны", "guests", "количество"}
	dietaryAliases    = []string{"диета", "предпочтения в еде", "аллерг", "тағам", "dietary", "питание"}
	statusAliases     = []string{"статус", "придете", "придёте", "келесіз бе", "участие", "attendance", "status", "ответ"}
	giftIDAliases     = []string{"gift_id", "item_id", "id подарка", "идентификатор"}
	giftNameAliases   = []string{"подарок", "сыйлық", "название подарка", "gift", "item", "название"}
	messageAliases    = []string{"сообщение", "пожелание", "тілек", "поздравление", "message", "текст"}
)

// resolveField finds the value for one canonical field in a raw payload.
// Raw keys are scanned in sorted order so resolution is deterministic.
func resolveField(payload map[string]string, aliases []string) (string, bool) {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, alias := range aliases {
		for _, k := range keys {
			if strings.EqualFold(strings.TrimSpace(k), alias) {
				return strings.TrimSpace(payload[k]), true
			}
		}
	}
	for _, alias := range aliases {
		for _, k := range keys {
			if strings.Contains(strings.ToLower(k), alias) {
				return strings.TrimSpace(payload[k]), true
			}
		}
	}
	return "", false
}

func resolveFieldOr(payload map[string]string, aliases []string, fallback string) string {
	if v, ok := resolveField(payload, aliases); ok && v != "" {
		return v
	}
	return fallback
}

// resolveGuestCount parses the guest count, defaulting to one. Values like
// "2 человека" still parse their leading digits.
func resolveGuestCount(payload map[string]string) int {
	raw, ok := resolveField(payload, guestCountAliases)
	if !ok || raw == "" {
		return 1
	}
	digits := strings.TrimFunc(raw, func(r rune) bool { return r < '0' || r > '9' })
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

var (
	declineTokens = []string{
		"нет", "не приду", "не придем", "не придём", "не смогу", "не буду",
		"откл", "келмеймін", "келе алмаймын", "жоқ", "no", "decline", "won't",
	}
	partnerTokens = []string{
		"с супруг", "с женой", "с мужем", "с парой", "вдвоем", "вдвоём",
		"жұбайыммен", "зайыбыммен", "partner", "couple",
	}
	plusOneTokens = []string{
		"плюс один", "+1", "с гостем", "с другом", "с подругой", "plus one",
	}
)

// classifyAttendance maps a free-form status token and guest count onto the
// closed attendance set. A count above one with no explicit status means the
// guest is bringing company.
func classifyAttendance(statusToken string, guestCount int) models.AttendanceStatus {
	token := strings.ToLower(strings.TrimSpace(statusToken))
	if token != "" {
		if containsAny(token, declineTokens) {
			return models.AttendanceDeclined
		}
		if containsAny(token, partnerTokens) {
			return models.AttendanceConfirmedWithPartner
		}
		if containsAny(token, plusOneTokens) {
			return models.AttendanceConfirmedPlusOne
		}
	}
	if guestCount > 1 {
		return models.AttendanceConfirmedPlusOne
	}
	return models.AttendanceConfirmed
}

func containsAny(text string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(text, tok) {
			return true
		}
	}
	return false
}
