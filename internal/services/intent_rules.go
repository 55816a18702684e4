package services

import "strings"

// TurnMode is the routing decision for one user turn.
type TurnMode string

const (
	ModeConverse TurnMode = "converse"
	ModeGenerate TurnMode = "generate"
	ModeEdit     TurnMode = "edit"
)

type intentAction int

const (
	actionNone intentAction = iota
	actionGenerate
	actionNewDesign
)

type intentRule struct {
	action  intentAction
	phrases []string
}

// intentRules is the versioned trigger-phrase table. Rules are checked in
// order; matching is case-insensitive substring containment. Phrases cover
// Kazakh, Russian and English wording.
var intentRules = []intentRule{
	{
		action: actionNewDesign,
		phrases: []string{
			"новый дизайн",
			"другой дизайн",
			"с нуля",
			"заново",
			"переделай полностью",
			"жаңа дизайн",
			"басынан баста",
			"new design",
			"start over",
			"from scratch",
		},
	},
	{
		action: actionGenerate,
		phrases: []string{
			"создай",
			"сделай",
			"сгенерируй",
			"готово, делай",
			"покажи пригласительное",
			"жаса",
			"құрастыр",
			"шақыру жаса",
			"generate",
			"create the invitation",
		},
	},
}

// minUserTurnsForGenerate gates the first generation: the user must have
// given at least this many turns of description before a full document is
// committed to.
const minUserTurnsForGenerate = 3

func matchIntent(text string) intentAction {
	lowered := strings.ToLower(text)
	for _, rule := range intentRules {
		for _, phrase := range rule.phrases {
			if strings.Contains(lowered, phrase) {
				return rule.action
			}
		}
	}
	return actionNone
}

// classifyTurn decides how to route a user turn. userTurns counts the
// user-authored turns in the session including the current one.
func classifyTurn(hasDocument bool, userTurns int, text string) TurnMode {
	action := matchIntent(text)

	if action == actionNewDesign {
		return ModeGenerate
	}
	if hasDocument {
		return ModeEdit
	}
	if action == actionGenerate && userTurns >= minUserTurnsForGenerate {
		return ModeGenerate
	}
	return ModeConverse
}
