package jobs

import (
	"context"
	"time"

	"commonground-backend/internal/logger"
)

// SendPendingApplicationReminders mails every community's active owner
// and moderators about applications that have been pending longer than
// the configured age.
func (jr *JobRunner) SendPendingApplicationReminders() {
	jr.runWithRecovery("SendPendingApplicationReminders", jr.sendPendingApplicationReminders)
}

func (jr *JobRunner) sendPendingApplicationReminders() {
	ctx := context.Background()
	cutoff := time.Now().Add(-time.Duration(jr.config.Jobs.PendingReminderAfterHours) * time.Hour)

	counts, err := jr.appRepo.ListStalePendingCommunities(ctx, cutoff)
	if err != nil {
		logger.Error("Failed to list stale pending applications", "error", err)
		return
	}

	for communityID, count := range counts {
		community, err := jr.communityRepo.GetByID(ctx, communityID)
		if err != nil {
			logger.Error("Failed to load community for reminder", "community_id", communityID, "error", err)
			continue
		}

		reviewers, err := jr.membershipRepo.ListActiveReviewers(ctx, communityID)
		if err != nil {
			logger.Error("Failed to list reviewers for reminder", "community_id", communityID, "error", err)
			continue
		}

		for _, m := range reviewers {
			user, err := jr.userRepo.GetByID(ctx, m.UserID)
			if err != nil || user.Email == "" {
				continue
			}
			if err := jr.emailSvc.SendPendingApplicationsReminder(ctx, user.Email, user.LoginName, community.Name, count); err != nil {
				logger.Warn("Failed to send pending application reminder", "user_id", user.ID, "community_id", communityID, "error", err)
			}
		}
		logger.Info("Sent pending application reminders", "community_id", communityID, "pending", count, "reviewers", len(reviewers))
	}
}
