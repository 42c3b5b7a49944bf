package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"commonground-backend/internal/domain"
	"commonground-backend/internal/repository"
)

type applicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) repository.ApplicationRepository {
	return &applicationRepository{db: db}
}

const applicationColumns = `id, community_id, user_id, profile_name, profile_username, message,
	status, reviewer_user_id, reviewed_on, rejection_reason, created_on`

func scanApplication(row *sql.Row) (*domain.Application, error) {
	a := &domain.Application{}
	err := row.Scan(&a.ID, &a.CommunityID, &a.UserID, &a.ProfileName, &a.ProfileUsername,
		&a.Message, &a.Status, &a.ReviewerUserID, &a.ReviewedOn, &a.RejectionReason, &a.CreatedOn)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *applicationRepository) Create(ctx context.Context, a *domain.Application) error {
	query := `INSERT INTO community_applications
	          (community_id, user_id, profile_name, profile_username, message, status, rejection_reason, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, '', $7) RETURNING id, created_on`
	err := q(ctx, r.db).QueryRowContext(ctx, query,
		a.CommunityID, a.UserID, a.ProfileName, a.ProfileUsername, a.Message, a.Status, time.Now()).
		Scan(&a.ID, &a.CreatedOn)
	return conflictOn(err, "an application for this community is already pending")
}

func (r *applicationRepository) GetByID(ctx context.Context, id int32) (*domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM community_applications WHERE id = $1`
	a, err := scanApplication(q(ctx, r.db).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundError("application %d not found", id)
	}
	return a, err
}

func (r *applicationRepository) GetPendingByUserAndCommunity(ctx context.Context, userID, communityID int32) (*domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM community_applications
	          WHERE user_id = $1 AND community_id = $2 AND status = $3`
	a, err := scanApplication(q(ctx, r.db).QueryRowContext(ctx, query, userID, communityID, domain.ApplicationStatusPending))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

func (r *applicationRepository) PendingUsernameExists(ctx context.Context, communityID int32, username string, excludeID int32) (bool, error) {
	query := `SELECT EXISTS (
	            SELECT 1 FROM community_applications
	            WHERE community_id = $1 AND profile_username = $2 AND status = $3 AND id <> $4)`
	var exists bool
	err := q(ctx, r.db).QueryRowContext(ctx, query, communityID, username, domain.ApplicationStatusPending, excludeID).Scan(&exists)
	return exists, err
}

func (r *applicationRepository) Update(ctx context.Context, a *domain.Application) error {
	query := `UPDATE community_applications
	          SET status = $1, reviewer_user_id = $2, reviewed_on = $3, rejection_reason = $4
	          WHERE id = $5`
	_, err := q(ctx, r.db).ExecContext(ctx, query, a.Status, a.ReviewerUserID, a.ReviewedOn, a.RejectionReason, a.ID)
	return conflictOn(err, "an application for this community is already pending")
}

func (r *applicationRepository) ListByCommunity(ctx context.Context, communityID int32, status domain.ApplicationStatus) ([]domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM community_applications
	          WHERE community_id = $1 AND ($2 = '' OR status = $2) ORDER BY created_on`
	rows, err := q(ctx, r.db).QueryContext(ctx, query, communityID, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []domain.Application
	for rows.Next() {
		var a domain.Application
		if err := rows.Scan(&a.ID, &a.CommunityID, &a.UserID, &a.ProfileName, &a.ProfileUsername,
			&a.Message, &a.Status, &a.ReviewerUserID, &a.ReviewedOn, &a.RejectionReason, &a.CreatedOn); err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

func (r *applicationRepository) ListStalePendingCommunities(ctx context.Context, cutoff time.Time) (map[int32]int32, error) {
	query := `SELECT community_id, COUNT(*) FROM community_applications
	          WHERE status = $1 AND created_on < $2 GROUP BY community_id`
	rows, err := q(ctx, r.db).QueryContext(ctx, query, domain.ApplicationStatusPending, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[int32]int32)
	for rows.Next() {
		var communityID, count int32
		if err := rows.Scan(&communityID, &count); err != nil {
			return nil, err
		}
		counts[communityID] = count
	}
	return counts, rows.Err()
}
