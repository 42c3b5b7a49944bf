package jobs

import (
	"commonground-backend/internal/config"
	"commonground-backend/internal/logger"
	"commonground-backend/internal/repository"
	"commonground-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	appRepo        repository.ApplicationRepository
	membershipRepo repository.MembershipRepository
	userRepo       repository.UserRepository
	communityRepo  repository.CommunityRepository
	emailSvc       service.EmailService
	config         *config.Config
}

func NewJobRunner(
	appRepo repository.ApplicationRepository,
	membershipRepo repository.MembershipRepository,
	userRepo repository.UserRepository,
	communityRepo repository.CommunityRepository,
	emailSvc service.EmailService,
	cfg *config.Config,
) *JobRunner {
	return &JobRunner{
		appRepo:        appRepo,
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		communityRepo:  communityRepo,
		emailSvc:       emailSvc,
		config:         cfg,
	}
}

func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}
