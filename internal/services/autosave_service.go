package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"shaqyru/internal/apperrors"
	"shaqyru/internal/events"
)

// DraftStore is the narrow persistence contract the coordinator saves
// through. Implementations must surface slug collisions as ConflictError.
type DraftStore interface {
	CreateDraft(ctx context.Context, document, slug, title string) (uint, error)
	UpdateDraft(ctx context.Context, id uint, document string) error
}

// AutosaveCoordinator persists one session's evolving document in the
// background. It owns the session's autosave state exclusively: pending
// content, the in-flight flag and the remote draft id live here and nowhere
// else. At most one save is in flight at any instant; the persisted value
// always converges on the last document handed to OnDocumentChanged.
type AutosaveCoordinator struct {
	store      DraftStore
	logger     zerolog.Logger
	sessionKey string
	title      string

	firstDelay  time.Duration
	steadyDelay time.Duration

	// onFirstSave runs once with the remote id assigned by the first
	// successful create, so the caller can link the draft to its session.
	onFirstSave func(remoteID uint)

	mu          sync.Mutex
	pending     string
	hasPending  bool
	inFlight    bool
	timer       *time.Timer
	remoteID    uint
	lastSavedAt time.Time
}

// AutosaveConfig carries the coordinator's construction parameters.
type AutosaveConfig struct {
	Store       DraftStore
	Logger      zerolog.Logger
	SessionKey  string
	Title       string
	FirstDelay  time.Duration
	SteadyDelay time.Duration
	OnFirstSave func(remoteID uint)
}

func NewAutosaveCoordinator(cfg AutosaveConfig) *AutosaveCoordinator {
	if cfg.FirstDelay <= 0 {
		cfg.FirstDelay = 500 * time.Millisecond
	}
	if cfg.SteadyDelay <= 0 {
		cfg.SteadyDelay = 3 * time.Second
	}
	return &AutosaveCoordinator{
		store:       cfg.Store,
		logger:      cfg.Logger,
		sessionKey:  cfg.SessionKey,
		title:       cfg.Title,
		firstDelay:  cfg.FirstDelay,
		steadyDelay: cfg.SteadyDelay,
		onFirstSave: cfg.OnFirstSave,
	}
}

// OnDocumentChanged records doc as the pending content and schedules a save.
// If a save is already in flight it returns immediately; the in-flight save
// notices the newer pending content when it completes and re-runs itself.
func (c *AutosaveCoordinator) OnDocumentChanged(doc string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pending = doc
	c.hasPending = true

	if c.inFlight {
		return
	}

	delay := c.steadyDelay
	if c.remoteID == 0 {
		// First-ever save: shrink the window where the draft exists only
		// in memory.
		delay = c.firstDelay
	}

	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(delay, c.runSave)
}

// Flush forces an immediate synchronous save of any pending content. Used on
// session shutdown.
func (c *AutosaveCoordinator) Flush() {
	c.mu.Lock()
	if !c.hasPending || c.inFlight {
		c.mu.Unlock()
		return
	}
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()
	c.runSave()
}

// RemoteID returns the persisted draft id, or zero before the first
// successful save.
func (c *AutosaveCoordinator) RemoteID() uint {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remoteID
}

// LastSavedAt returns the timestamp of the last successful save.
func (c *AutosaveCoordinator) LastSavedAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSavedAt
}

// runSave drains pending content. It loops without re-debouncing whenever
// the just-saved content is already stale, so the coordinator converges on
// the latest state; it clears the in-flight flag only when no work remains.
func (c *AutosaveCoordinator) runSave() {
	c.mu.Lock()
	if c.inFlight || !c.hasPending {
		c.mu.Unlock()
		return
	}
	c.inFlight = true
	c.mu.Unlock()

	ctx := context.Background()

	for {
		c.mu.Lock()
		doc := c.pending
		remoteID := c.remoteID
		c.mu.Unlock()

		var err error
		var createdID uint
		if remoteID == 0 {
			createdID, err = c.createDraft(ctx, doc)
		} else {
			err = c.store.UpdateDraft(ctx, remoteID, doc)
		}

		c.mu.Lock()
		if err != nil {
			// Keep pending intact; the next content change retries.
			c.inFlight = false
			c.mu.Unlock()
			c.logger.Error().Err(err).Str("session", c.sessionKey).Msg("autosave failed")
			events.Emit(ctx, events.SessionEventAutosave, events.NewError(fmt.Sprintf("autosave failed: %v", err)))
			return
		}

		first := false
		if remoteID == 0 {
			c.remoteID = createdID
			first = true
		}
		c.lastSavedAt = time.Now()

		if c.pending == doc {
			c.hasPending = false
			c.inFlight = false
			c.mu.Unlock()
			if first && c.onFirstSave != nil {
				c.onFirstSave(createdID)
			}
			return
		}
		// Newer content arrived while saving; go again immediately.
		c.mu.Unlock()
		if first && c.onFirstSave != nil {
			c.onFirstSave(createdID)
		}
	}
}

// createDraft creates the remote draft, retrying once with a fresh slug
// suffix when the generated slug collides.
func (c *AutosaveCoordinator) createDraft(ctx context.Context, doc string) (uint, error) {
	id, err := c.store.CreateDraft(ctx, doc, draftSlug(c.title), c.title)
	if err != nil && apperrors.IsConflict(err) {
		id, err = c.store.CreateDraft(ctx, doc, draftSlug(c.title), c.title)
	}
	return id, err
}

// draftSlug derives a URL slug from the invitation title plus a short random
// suffix to keep slugs unique across owners.
func draftSlug(title string) string {
	base := strings.ToLower(strings.TrimSpace(title))
	var b strings.Builder
	lastDash := true
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r >= 'а' && r <= 'я', r == 'ё':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	slug := strings.Trim(b.String(), "-")
	suffix := uuid.NewString()[:8]
	if slug == "" {
		return suffix
	}
	return slug + "-" + suffix
}
