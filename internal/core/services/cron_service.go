package services

import (
	"context"
	"log"
	"time"

	"labis-admin/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// CronService schedules the background cleanup jobs: expired HIS tokens
// hourly and expired refresh tokens nightly.
type CronService struct {
	cron             *cron.Cron
	hisTokenService  *HisTokenService
	refreshTokenRepo repositories.RefreshTokenRepository
}

// NewCronService creates a new cron service
func NewCronService(hisTokenService *HisTokenService, refreshTokenRepo repositories.RefreshTokenRepository) *CronService {
	return &CronService{
		cron:             cron.New(),
		hisTokenService:  hisTokenService,
		refreshTokenRepo: refreshTokenRepo,
	}
}

// Start registers and launches the scheduled jobs
func (s *CronService) Start() {
	// Expired HIS tokens: every hour on the hour
	s.cron.AddFunc("0 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := s.hisTokenService.CleanupExpired(ctx); err != nil {
			log.Printf("❌ HIS token cleanup failed: %v", err)
		}
	})

	// Expired refresh tokens: daily at 02:00
	s.cron.AddFunc("0 2 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		removed, err := s.refreshTokenRepo.DeleteExpired(ctx)
		if err != nil {
			log.Printf("❌ Refresh token cleanup failed: %v", err)
			return
		}
		if removed > 0 {
			log.Printf("🗑️ Removed %d expired refresh tokens", removed)
		}
	})

	s.cron.Start()
	log.Println("🚀 Cron service started")
}

// Stop stops the scheduler, waiting for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 Cron service stopped")
}
