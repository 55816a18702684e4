package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"shaqyru/internal/config"
	"shaqyru/internal/llm/client"
	"shaqyru/internal/repositories"
)

// Services aggregates all domain services backed by the database.
type Services struct {
	Invitations InvitationService
	Generation  GenerationService
	Forms       FormService
	Features    FeatureService
	Quotas      QuotaService
}

// Startup verifies the container is fully wired. Called once by the host
// process before any requests are served.
func (s *Services) Startup(ctx context.Context) error {
	if s.Invitations == nil || s.Generation == nil || s.Forms == nil || s.Features == nil || s.Quotas == nil {
		return fmt.Errorf("service container is not fully configured")
	}
	return nil
}

// NewServices constructs the service container using repositories backed by db.
func NewServices(db *gorm.DB, cfg *config.Config, logger zerolog.Logger) *Services {
	invitationRepo := repositories.NewInvitationRepository(db)
	attendanceRepo := repositories.NewAttendanceRepository(db)
	giftRepo := repositories.NewGiftRepository(db)
	guestbookRepo := repositories.NewGuestbookRepository(db)
	quotaRepo := repositories.NewQuotaRepository(db)
	sessionRepo := repositories.NewGenerationSessionRepository(db)

	quotas := NewQuotaService(quotaRepo, cfg.FreeEditCap, logger)

	generation := NewGenerationService(GenerationConfig{
		Sessions:        sessionRepo,
		Invitations:     invitationRepo,
		Quotas:          quotas,
		Factory:         providerFactory(cfg),
		Prompts:         client.SystemPrompt,
		Logger:          logger,
		FirstSaveDelay:  cfg.FirstSaveDelay,
		SteadySaveDelay: cfg.SteadySaveDelay,
	})

	return &Services{
		Invitations: NewInvitationService(invitationRepo, giftRepo, guestbookRepo),
		Generation:  generation,
		Forms:       NewFormService(invitationRepo, attendanceRepo, giftRepo, guestbookRepo, logger),
		Features:    NewFeatureService(invitationRepo, attendanceRepo, giftRepo, guestbookRepo),
		Quotas:      quotas,
	}
}

// providerFactory binds provider credentials from the configuration. The
// provider tag is resolved inside client.New and nowhere else.
func providerFactory(cfg *config.Config) GeneratorFactory {
	return func(ctx context.Context, provider string) (Generator, error) {
		clientCfg := client.Config{}
		switch provider {
		case client.ProviderAnthropic:
			clientCfg = client.Config{APIKey: cfg.AnthropicAPIKey, Model: cfg.AnthropicModel}
		case client.ProviderGemini:
			clientCfg = client.Config{APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel}
		case client.ProviderOpenAI:
			clientCfg = client.Config{APIKey: cfg.OpenAIAPIKey, Model: cfg.OpenAIModel}
		}
		return client.New(ctx, provider, clientCfg)
	}
}
