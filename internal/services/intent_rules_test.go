package services

import "testing"

func TestClassifyTurn(t *testing.T) {
	cases := []struct {
		name        string
		hasDocument bool
		userTurns   int
		text        string
		expected    TurnMode
	}{
		{"first description stays conversational", false, 1, "Свадьба Асель и Дамира, 15 июня в Алматы", ModeConverse},
		{"details without trigger stay conversational", false, 2, "Будет около 80 гостей, стиль минимализм", ModeConverse},
		{"trigger before enough turns stays conversational", false, 2, "создай пригласительное", ModeConverse},
		{"trigger at third turn generates", false, 3, "Отлично, создай пригласительное", ModeGenerate},
		{"trigger casing is ignored", false, 3, "СОЗДАЙ приглашение", ModeGenerate},
		{"kazakh trigger generates", false, 4, "Енді шақыру жаса", ModeGenerate},
		{"late turns without trigger stay conversational", false, 7, "У нас дресс-код чёрно-белый", ModeConverse},
		{"any text with a document edits", true, 5, "поменяй цвет фона на синий", ModeEdit},
		{"question with a document still edits", true, 6, "а можно добавить карту проезда?", ModeEdit},
		{"new design with a document regenerates", true, 6, "давай новый дизайн с нуля", ModeGenerate},
		{"new design bypasses the turn gate", false, 1, "сделай новый дизайн", ModeGenerate},
		{"english start over regenerates", true, 9, "let's start over please", ModeGenerate},
	}

	for _, tc := range cases {
		if got := classifyTurn(tc.hasDocument, tc.userTurns, tc.text); got != tc.expected {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.expected, got)
		}
	}
}

func TestMatchIntentPrefersNewDesign(t *testing.T) {
	// Both rule sets match; the new-design rule is checked first.
	if got := matchIntent("создай всё заново"); got != actionNewDesign {
		t.Fatalf("expected actionNewDesign, got %d", got)
	}
}

func TestMatchIntentNone(t *testing.T) {
	if got := matchIntent("расскажи, какие цвета сейчас в моде"); got != actionNone {
		t.Fatalf("expected actionNone, got %d", got)
	}
}
