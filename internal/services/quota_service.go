package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"shaqyru/internal/apperrors"
	"shaqyru/internal/events"
	"shaqyru/internal/models"
	"shaqyru/internal/repositories"
)

// editPackages maps a purchasable package id to its edit limit.
var editPackages = map[string]int{
	"standart": 15,
	"premium":  50,
}

// topUpIncrement is the fixed number of edits one top-up adds to a tier.
const topUpIncrement = 5

// PaymentWebhookEvent is one payment gateway callback. Delivery is
// at-least-once; TransactionID keys the idempotency ledger.
type PaymentWebhookEvent struct {
	InvitationID  uint
	PackageID     string
	Kind          models.PaymentTransactionKind
	Success       bool
	TransactionID string
}

type QuotaService interface {
	// Authorize checks whether one more edit is allowed. freeTurnsUsed is the
	// session's free-turn counter, consulted only while no tier exists. A
	// denial carries the purchase/top-up offer the caller must present.
	Authorize(invitationID uint, freeTurnsUsed int) error
	// RecordEdit counts a successful edit against the tier, if any.
	RecordEdit(invitationID uint) error
	Get(invitationID uint) (*models.EditQuota, error)
	HandlePaymentWebhook(ctx context.Context, evt PaymentWebhookEvent) error
}

type quotaService struct {
	repo        repositories.QuotaRepository
	freeEditCap int
	logger      zerolog.Logger
}

func NewQuotaService(repo repositories.QuotaRepository, freeEditCap int, logger zerolog.Logger) QuotaService {
	if freeEditCap <= 0 {
		freeEditCap = 5
	}
	return &quotaService{repo: repo, freeEditCap: freeEditCap, logger: logger}
}

func (s *quotaService) Get(invitationID uint) (*models.EditQuota, error) {
	return s.repo.Get(invitationID)
}

func (s *quotaService) Authorize(invitationID uint, freeTurnsUsed int) error {
	var quota *models.EditQuota
	if invitationID != 0 {
		q, err := s.repo.Get(invitationID)
		if err != nil {
			return fmt.Errorf("load quota: %w", err)
		}
		quota = q
	}

	if quota == nil || quota.TierID == nil {
		if freeTurnsUsed >= s.freeEditCap {
			return &apperrors.QuotaExceededError{
				Limit: s.freeEditCap,
				Used:  freeTurnsUsed,
				Offer: "purchase",
			}
		}
		return nil
	}

	if quota.EditsUsed >= quota.EditsLimit {
		return &apperrors.QuotaExceededError{
			Limit: quota.EditsLimit,
			Used:  quota.EditsUsed,
			Offer: "topup",
		}
	}
	return nil
}

func (s *quotaService) RecordEdit(invitationID uint) error {
	if invitationID == 0 {
		return nil
	}
	quota, err := s.repo.Get(invitationID)
	if err != nil {
		return fmt.Errorf("load quota: %w", err)
	}
	if quota == nil || quota.TierID == nil {
		// Tierless sessions are counted by the session's free-turn counter.
		return nil
	}
	if quota.EditsUsed >= quota.EditsLimit {
		// A denied edit never increments the counter.
		return nil
	}
	quota.EditsUsed++
	return s.repo.Save(quota)
}

// HandlePaymentWebhook applies a purchase or top-up. Every delivery is run
// through the transaction ledger first: a replayed transaction id is
// acknowledged without applying its additive effect again.
func (s *quotaService) HandlePaymentWebhook(ctx context.Context, evt PaymentWebhookEvent) error {
	if evt.TransactionID == "" {
		return &apperrors.ValidationError{Field: "transactionId", Reason: "required"}
	}
	if evt.InvitationID == 0 {
		return &apperrors.ValidationError{Field: "invitationId", Reason: "required"}
	}

	fresh, err := s.repo.RecordTransaction(&models.PaymentTransaction{
		TransactionID: evt.TransactionID,
		InvitationID:  evt.InvitationID,
		PackageID:     evt.PackageID,
		Kind:          evt.Kind,
		Success:       evt.Success,
	})
	if err != nil {
		return fmt.Errorf("record transaction: %w", err)
	}
	if !fresh {
		s.logger.Warn().Str("txn", evt.TransactionID).Msg("duplicate payment webhook delivery ignored")
		return nil
	}
	if !evt.Success {
		s.logger.Info().Str("txn", evt.TransactionID).Msg("unsuccessful payment recorded")
		return nil
	}

	switch evt.Kind {
	case models.PaymentPurchase:
		return s.applyPurchase(ctx, evt)
	case models.PaymentTopUp:
		return s.applyTopUp(ctx, evt)
	default:
		return &apperrors.ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown payment kind %q", evt.Kind)}
	}
}

func (s *quotaService) applyPurchase(ctx context.Context, evt PaymentWebhookEvent) error {
	limit, ok := editPackages[evt.PackageID]
	if !ok {
		return &apperrors.ValidationError{Field: "packageId", Reason: fmt.Sprintf("unknown package %q", evt.PackageID)}
	}

	quota, err := s.repo.Get(evt.InvitationID)
	if err != nil {
		return fmt.Errorf("load quota: %w", err)
	}
	if quota == nil {
		quota = &models.EditQuota{InvitationID: evt.InvitationID}
	}
	tierID := evt.PackageID
	quota.TierID = &tierID
	quota.EditsLimit = limit
	quota.EditsUsed = 0
	if err := s.repo.Save(quota); err != nil {
		return fmt.Errorf("save quota: %w", err)
	}

	events.Emit(ctx, events.SessionEventQuota,
		events.NewSuccess(fmt.Sprintf("package %s activated: %d edits", evt.PackageID, limit)))
	return nil
}

func (s *quotaService) applyTopUp(ctx context.Context, evt PaymentWebhookEvent) error {
	quota, err := s.repo.Get(evt.InvitationID)
	if err != nil {
		return fmt.Errorf("load quota: %w", err)
	}
	if quota == nil || quota.TierID == nil {
		return &apperrors.ValidationError{Field: "invitationId", Reason: "top-up requires an active package"}
	}
	quota.EditsLimit += topUpIncrement
	if err := s.repo.Save(quota); err != nil {
		return fmt.Errorf("save quota: %w", err)
	}

	events.Emit(ctx, events.SessionEventQuota,
		events.NewSuccess(fmt.Sprintf("top-up applied: +%d edits", topUpIncrement)))
	return nil
}
