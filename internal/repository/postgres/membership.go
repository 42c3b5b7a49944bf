package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"commonground-backend/internal/domain"
	"commonground-backend/internal/repository"
)

type membershipRepository struct {
	db *sql.DB
}

func NewMembershipRepository(db *sql.DB) repository.MembershipRepository {
	return &membershipRepository{db: db}
}

const membershipColumns = `id, user_id, community_id, role, status, activated_on, application_id, created_on`

func scanMembership(row *sql.Row) (*domain.Membership, error) {
	m := &domain.Membership{}
	err := row.Scan(&m.ID, &m.UserID, &m.CommunityID, &m.Role, &m.Status, &m.ActivatedOn, &m.ApplicationID, &m.CreatedOn)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *membershipRepository) Create(ctx context.Context, m *domain.Membership) error {
	query := `INSERT INTO memberships (user_id, community_id, role, status, activated_on, application_id, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_on`
	err := q(ctx, r.db).QueryRowContext(ctx, query,
		m.UserID, m.CommunityID, m.Role, m.Status, m.ActivatedOn, m.ApplicationID, time.Now()).
		Scan(&m.ID, &m.CreatedOn)
	return conflictOn(err, "membership already exists for this user and community")
}

func (r *membershipRepository) GetByID(ctx context.Context, id int32) (*domain.Membership, error) {
	query := `SELECT ` + membershipColumns + ` FROM memberships WHERE id = $1`
	m, err := scanMembership(q(ctx, r.db).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundError("membership %d not found", id)
	}
	return m, err
}

func (r *membershipRepository) GetByUserAndCommunity(ctx context.Context, userID, communityID int32) (*domain.Membership, error) {
	query := `SELECT ` + membershipColumns + ` FROM memberships WHERE user_id = $1 AND community_id = $2`
	m, err := scanMembership(q(ctx, r.db).QueryRowContext(ctx, query, userID, communityID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return m, err
}

func (r *membershipRepository) Update(ctx context.Context, m *domain.Membership) error {
	query := `UPDATE memberships SET role = $1, status = $2, activated_on = $3, application_id = $4 WHERE id = $5`
	_, err := q(ctx, r.db).ExecContext(ctx, query, m.Role, m.Status, m.ActivatedOn, m.ApplicationID, m.ID)
	return conflictOn(err, "community already has an active owner")
}

func (r *membershipRepository) ListByCommunity(ctx context.Context, communityID int32, activeOnly bool) ([]domain.Membership, error) {
	query := `SELECT ` + membershipColumns + ` FROM memberships
	          WHERE community_id = $1 AND (NOT $2 OR status = $3) ORDER BY created_on`
	return r.list(ctx, query, communityID, activeOnly, domain.MembershipStatusActive)
}

func (r *membershipRepository) ListActiveReviewers(ctx context.Context, communityID int32) ([]domain.Membership, error) {
	query := `SELECT ` + membershipColumns + ` FROM memberships
	          WHERE community_id = $1 AND status = $2 AND role IN ($3, $4) ORDER BY created_on`
	return r.list(ctx, query, communityID, domain.MembershipStatusActive,
		domain.MembershipRoleOwner, domain.MembershipRoleModerator)
}

func (r *membershipRepository) list(ctx context.Context, query string, args ...any) ([]domain.Membership, error) {
	rows, err := q(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memberships []domain.Membership
	for rows.Next() {
		var m domain.Membership
		if err := rows.Scan(&m.ID, &m.UserID, &m.CommunityID, &m.Role, &m.Status,
			&m.ActivatedOn, &m.ApplicationID, &m.CreatedOn); err != nil {
			return nil, err
		}
		memberships = append(memberships, m)
	}
	return memberships, rows.Err()
}
