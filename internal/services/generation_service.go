package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"shaqyru/internal/apperrors"
	"shaqyru/internal/events"
	"shaqyru/internal/llm/extract"
	"shaqyru/internal/models"
	"shaqyru/internal/repositories"
)

// degradedReply is surfaced as a conversational answer when the generative
// service fails mid-turn; session state is left untouched.
const degradedReply = "Сервис генерации временно недоступен, попробуйте ещё раз через минуту."

// Generator is one generative backend. client.Client satisfies it; tests
// substitute fakes.
type Generator interface {
	Provider() string
	Complete(ctx context.Context, system string, turns []models.ConversationTurn) (string, error)
}

// GeneratorFactory builds a Generator for a provider tag. The tag is
// resolved inside the factory; nothing downstream branches on it.
type GeneratorFactory func(ctx context.Context, provider string) (Generator, error)

// PromptSource loads a named system instruction.
type PromptSource func(name string) (string, error)

// TurnResult is the outcome of one handled user turn.
type TurnResult struct {
	Mode            TurnMode `json:"mode"`
	Reply           string   `json:"reply"`
	Document        string   `json:"document,omitempty"`
	DocumentChanged bool     `json:"documentChanged"`
	InvitationID    uint     `json:"invitationId,omitempty"`
}

type GenerationService interface {
	StartSession(ctx context.Context, ownerID uint, provider string) (*models.GenerationSession, error)
	// HandleTurn routes one user turn: generate, edit or converse per the
	// intent rule tables. A canceled ctx aborts the provider call and leaves
	// the session exactly as it was.
	HandleTurn(ctx context.Context, sessionID uint, text string) (*TurnResult, error)
	LoadSession(ctx context.Context, sessionID uint) (*models.GenerationSession, error)
	// CloseSession flushes pending autosave work and releases the session's
	// in-memory runtime.
	CloseSession(sessionID uint)
}

type sessionRuntime struct {
	generator Generator
	autosave  *AutosaveCoordinator
}

type generationService struct {
	sessions    repositories.GenerationSessionRepository
	invitations repositories.InvitationRepository
	quotas      QuotaService
	factory     GeneratorFactory
	prompts     PromptSource
	logger      zerolog.Logger

	firstSaveDelay  time.Duration
	steadySaveDelay time.Duration

	mu       sync.Mutex
	runtimes map[uint]*sessionRuntime
}

// GenerationConfig carries the generation service's construction parameters.
type GenerationConfig struct {
	Sessions        repositories.GenerationSessionRepository
	Invitations     repositories.InvitationRepository
	Quotas          QuotaService
	Factory         GeneratorFactory
	Prompts         PromptSource
	Logger          zerolog.Logger
	FirstSaveDelay  time.Duration
	SteadySaveDelay time.Duration
}

func NewGenerationService(cfg GenerationConfig) GenerationService {
	return &generationService{
		sessions:        cfg.Sessions,
		invitations:     cfg.Invitations,
		quotas:          cfg.Quotas,
		factory:         cfg.Factory,
		prompts:         cfg.Prompts,
		logger:          cfg.Logger,
		firstSaveDelay:  cfg.FirstSaveDelay,
		steadySaveDelay: cfg.SteadySaveDelay,
		runtimes:        make(map[uint]*sessionRuntime),
	}
}

func (s *generationService) StartSession(ctx context.Context, ownerID uint, provider string) (*models.GenerationSession, error) {
	provider = strings.TrimSpace(provider)
	if provider == "" {
		return nil, &apperrors.ValidationError{Field: "provider", Reason: "required"}
	}
	if _, err := s.factory(ctx, provider); err != nil {
		return nil, err
	}

	sess := &models.GenerationSession{OwnerID: ownerID, Provider: provider}
	if err := s.sessions.Create(sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

func (s *generationService) LoadSession(ctx context.Context, sessionID uint) (*models.GenerationSession, error) {
	sess, err := s.sessions.GetByID(sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		return nil, &apperrors.NotFoundError{Entity: "session", Key: fmt.Sprint(sessionID)}
	}
	return sess, nil
}

func (s *generationService) HandleTurn(ctx context.Context, sessionID uint, text string) (*TurnResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &apperrors.ValidationError{Field: "text", Reason: "required"}
	}

	sess, err := s.LoadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	runtime, err := s.ensureRuntime(ctx, sess)
	if err != nil {
		return nil, err
	}

	turns := append(sess.Turns(), models.ConversationTurn{
		Role:      models.TurnUser,
		Text:      text,
		Timestamp: time.Now(),
	})

	mode := classifyTurn(sess.HasDocument(), models.UserTurnCount(turns), text)
	sessionKey := fmt.Sprintf("session:%d", sess.ID)
	ctx = events.WithSession(ctx, sessionKey)

	if mode != ModeConverse {
		if err := s.quotas.Authorize(sess.InvitationID, sess.GenerationCount); err != nil {
			events.Emit(ctx, events.SessionEventQuota, events.NewWarn("edit denied by quota"))
			return nil, err
		}
	}

	system, llmTurns, err := s.buildRequest(mode, sess, turns, text)
	if err != nil {
		return nil, err
	}

	reply, err := runtime.generator.Complete(ctx, system, llmTurns)
	if err != nil {
		// An abort must not partially apply: the prior state is retained.
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("session", sessionKey).Msg("generation failed")
		events.Emit(ctx, events.SessionEventTurn, events.NewError(err.Error()))
		return &TurnResult{Mode: ModeConverse, Reply: degradedReply}, nil
	}

	result := &TurnResult{Mode: mode, Reply: reply}

	doc, extracted := extract.Document(reply)
	if extracted {
		sess.Document = doc
		sess.GenerationCount++
		result.Document = doc
		result.DocumentChanged = true
		runtime.autosave.OnDocumentChanged(doc)
		if err := s.quotas.RecordEdit(sess.InvitationID); err != nil {
			s.logger.Error().Err(err).Str("session", sessionKey).Msg("failed to record edit")
		}
	} else if mode != ModeConverse {
		// No extractable document: degrade to a conversational reply, keep
		// the prior document.
		result.Mode = ModeConverse
		events.Emit(ctx, events.SessionEventTurn, events.NewWarn("reply had no extractable document"))
	}

	turns = append(turns, models.ConversationTurn{
		Role:      models.TurnAssistant,
		Text:      reply,
		Timestamp: time.Now(),
	})
	if err := sess.SetTurns(turns); err != nil {
		return nil, fmt.Errorf("encode turns: %w", err)
	}

	if err := s.sessions.UpdateByID(sess.ID, map[string]interface{}{
		"turns_json":       sess.TurnsJSON,
		"document":         sess.Document,
		"generation_count": sess.GenerationCount,
	}); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	result.InvitationID = sess.InvitationID
	events.Emit(ctx, events.SessionEventTurn, events.NewInfo(fmt.Sprintf("turn handled in %s mode", result.Mode)))
	return result, nil
}

// buildRequest assembles the system instruction and conversation for the
// provider. Edit mode folds the current document into the final user turn so
// the model returns a full replacement.
func (s *generationService) buildRequest(mode TurnMode, sess *models.GenerationSession, turns []models.ConversationTurn, text string) (string, []models.ConversationTurn, error) {
	switch mode {
	case ModeGenerate:
		system, err := s.prompts("generate")
		if err != nil {
			return "", nil, err
		}
		return system, turns, nil
	case ModeEdit:
		system, err := s.prompts("edit")
		if err != nil {
			return "", nil, err
		}
		llmTurns := make([]models.ConversationTurn, len(turns))
		copy(llmTurns, turns)
		last := &llmTurns[len(llmTurns)-1]
		last.Text = fmt.Sprintf("Текущий документ:\n%s\n\nПросьба: %s", sess.Document, text)
		return system, llmTurns, nil
	default:
		system, err := s.prompts("converse")
		if err != nil {
			return "", nil, err
		}
		return system, turns, nil
	}
}

func (s *generationService) ensureRuntime(ctx context.Context, sess *models.GenerationSession) (*sessionRuntime, error) {
	s.mu.Lock()
	if rt, ok := s.runtimes[sess.ID]; ok {
		s.mu.Unlock()
		return rt, nil
	}
	s.mu.Unlock()

	generator, err := s.factory(ctx, sess.Provider)
	if err != nil {
		return nil, err
	}

	sessionID := sess.ID
	title := sessionTitle(sess)
	autosave := NewAutosaveCoordinator(AutosaveConfig{
		Store:       &invitationDraftStore{invitations: s.invitations},
		Logger:      s.logger,
		SessionKey:  fmt.Sprintf("session:%d", sessionID),
		Title:       title,
		FirstDelay:  s.firstSaveDelay,
		SteadyDelay: s.steadySaveDelay,
		OnFirstSave: func(remoteID uint) {
			if err := s.sessions.UpdateByID(sessionID, map[string]interface{}{
				"invitation_id": remoteID,
			}); err != nil {
				s.logger.Error().Err(err).Uint("session", sessionID).Msg("failed to link invitation")
			}
		},
	})
	// Resume against the existing draft after a restart.
	if sess.InvitationID != 0 {
		autosave.remoteID = sess.InvitationID
	}

	rt := &sessionRuntime{generator: generator, autosave: autosave}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.runtimes[sess.ID]; ok {
		return existing, nil
	}
	s.runtimes[sess.ID] = rt
	return rt, nil
}

func (s *generationService) CloseSession(sessionID uint) {
	s.mu.Lock()
	rt, ok := s.runtimes[sessionID]
	delete(s.runtimes, sessionID)
	s.mu.Unlock()
	if ok {
		rt.autosave.Flush()
	}
}

// sessionTitle derives a draft title from the first user turn.
func sessionTitle(sess *models.GenerationSession) string {
	for _, t := range sess.Turns() {
		if t.Role == models.TurnUser {
			title := strings.TrimSpace(t.Text)
			if len([]rune(title)) > 80 {
				title = string([]rune(title)[:80])
			}
			return title
		}
	}
	return "Пригласительное"
}

// invitationDraftStore adapts the invitation repository to the autosave
// coordinator's DraftStore contract.
type invitationDraftStore struct {
	invitations repositories.InvitationRepository
}

func (s *invitationDraftStore) CreateDraft(ctx context.Context, document, slug, title string) (uint, error) {
	inv := &models.Invitation{Slug: slug, Title: title, Document: document}
	if err := s.invitations.Create(inv); err != nil {
		return 0, err
	}
	return inv.ID, nil
}

func (s *invitationDraftStore) UpdateDraft(ctx context.Context, id uint, document string) error {
	return s.invitations.UpdateDocument(id, document, "", "")
}
