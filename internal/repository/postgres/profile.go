package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"commonground-backend/internal/domain"
	"commonground-backend/internal/repository"
)

type profileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

const profileColumns = `id, community_id, display_name, username, bio, avatar_key, status,
	activated_on, deleted_on, is_primary, created_on`

func scanProfile(row *sql.Row) (*domain.Profile, error) {
	p := &domain.Profile{}
	err := row.Scan(&p.ID, &p.CommunityID, &p.DisplayName, &p.Username, &p.Bio, &p.AvatarKey, &p.Status,
		&p.ActivatedOn, &p.DeletedOn, &p.IsPrimary, &p.CreatedOn)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *profileRepository) Create(ctx context.Context, p *domain.Profile) error {
	query := `INSERT INTO profiles (community_id, display_name, username, bio, avatar_key, status, activated_on, is_primary, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id, created_on`
	err := q(ctx, r.db).QueryRowContext(ctx, query,
		p.CommunityID, p.DisplayName, p.Username, p.Bio, p.AvatarKey, p.Status, p.ActivatedOn, p.IsPrimary, time.Now()).
		Scan(&p.ID, &p.CreatedOn)
	return conflictOn(err, "username is already taken in this community")
}

func (r *profileRepository) GetByID(ctx context.Context, id int32) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	p, err := scanProfile(q(ctx, r.db).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundError("profile %d not found", id)
	}
	return p, err
}

func (r *profileRepository) Update(ctx context.Context, p *domain.Profile) error {
	query := `UPDATE profiles
	          SET display_name = $1, bio = $2, avatar_key = $3, status = $4, activated_on = $5, deleted_on = $6, is_primary = $7
	          WHERE id = $8`
	_, err := q(ctx, r.db).ExecContext(ctx, query,
		p.DisplayName, p.Bio, p.AvatarKey, p.Status, p.ActivatedOn, p.DeletedOn, p.IsPrimary, p.ID)
	return conflictOn(err, "username is already taken in this community")
}

func (r *profileRepository) UsernameExists(ctx context.Context, communityID int32, username string, excludeUserID int32) (bool, error) {
	// Deactivated profiles count too: a username used once in a community
	// stays claimed by its owner even after they leave.
	query := `SELECT EXISTS (
	            SELECT 1 FROM profiles p
	            WHERE p.community_id = $1 AND p.username = $2 AND p.deleted_on IS NULL
	              AND ($3 = 0 OR NOT EXISTS (
	                SELECT 1 FROM profile_ownerships o
	                WHERE o.profile_id = p.id AND o.user_id = $3 AND o.role = $4)))`
	var exists bool
	err := q(ctx, r.db).QueryRowContext(ctx, query,
		communityID, username, excludeUserID, domain.OwnershipRoleOwner).Scan(&exists)
	return exists, err
}

func (r *profileRepository) GetActiveByUsername(ctx context.Context, communityID int32, username string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles
	          WHERE community_id = $1 AND username = $2 AND status = $3 AND deleted_on IS NULL`
	p, err := scanProfile(q(ctx, r.db).QueryRowContext(ctx, query, communityID, username, domain.ProfileStatusActive))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (r *profileRepository) GetOwnedByUsername(ctx context.Context, userID, communityID int32, username string) (*domain.Profile, error) {
	query := `SELECT p.id, p.community_id, p.display_name, p.username, p.bio, p.avatar_key, p.status,
	            p.activated_on, p.deleted_on, p.is_primary, p.created_on
	          FROM profiles p
	          JOIN profile_ownerships o ON o.profile_id = p.id
	          WHERE o.user_id = $1 AND o.role = $2 AND p.community_id = $3 AND p.username = $4
	            AND p.deleted_on IS NULL`
	p, err := scanProfile(q(ctx, r.db).QueryRowContext(ctx, query,
		userID, domain.OwnershipRoleOwner, communityID, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (r *profileRepository) ListByUser(ctx context.Context, userID, communityID int32) ([]domain.Profile, error) {
	query := `SELECT p.id, p.community_id, p.display_name, p.username, p.bio, p.avatar_key, p.status,
	            p.activated_on, p.deleted_on, p.is_primary, p.created_on
	          FROM profiles p
	          JOIN profile_ownerships o ON o.profile_id = p.id
	          WHERE o.user_id = $1 AND ($2 = 0 OR p.community_id = $2)
	          ORDER BY p.created_on`
	rows, err := q(ctx, r.db).QueryContext(ctx, query, userID, communityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []domain.Profile
	for rows.Next() {
		var p domain.Profile
		if err := rows.Scan(&p.ID, &p.CommunityID, &p.DisplayName, &p.Username, &p.Bio, &p.AvatarKey, &p.Status,
			&p.ActivatedOn, &p.DeletedOn, &p.IsPrimary, &p.CreatedOn); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (r *profileRepository) DeactivateOwnedByUser(ctx context.Context, userID, communityID int32) error {
	query := `UPDATE profiles SET status = $1, activated_on = NULL
	          WHERE community_id = $2 AND id IN (
	            SELECT profile_id FROM profile_ownerships WHERE user_id = $3 AND role = $4)`
	_, err := q(ctx, r.db).ExecContext(ctx, query,
		domain.ProfileStatusInactive, communityID, userID, domain.OwnershipRoleOwner)
	return err
}

func (r *profileRepository) GetPrimaryForUser(ctx context.Context, userID, communityID int32) (*domain.Profile, error) {
	query := `SELECT p.id, p.community_id, p.display_name, p.username, p.bio, p.avatar_key, p.status,
	            p.activated_on, p.deleted_on, p.is_primary, p.created_on
	          FROM profiles p
	          JOIN profile_ownerships o ON o.profile_id = p.id
	          WHERE o.user_id = $1 AND o.role = $2 AND p.community_id = $3
	            AND p.is_primary AND p.deleted_on IS NULL`
	p, err := scanProfile(q(ctx, r.db).QueryRowContext(ctx, query, userID, domain.OwnershipRoleOwner, communityID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (r *profileRepository) ClearPrimaryForUser(ctx context.Context, userID, communityID int32) error {
	query := `UPDATE profiles SET is_primary = FALSE
	          WHERE community_id = $1 AND id IN (
	            SELECT profile_id FROM profile_ownerships WHERE user_id = $2 AND role = $3)`
	_, err := q(ctx, r.db).ExecContext(ctx, query, communityID, userID, domain.OwnershipRoleOwner)
	return err
}

func (r *profileRepository) CreateOwnership(ctx context.Context, o *domain.ProfileOwnership) error {
	query := `INSERT INTO profile_ownerships (profile_id, user_id, role, created_on)
	          VALUES ($1, $2, $3, $4) RETURNING id, created_on`
	err := q(ctx, r.db).QueryRowContext(ctx, query, o.ProfileID, o.UserID, o.Role, time.Now()).
		Scan(&o.ID, &o.CreatedOn)
	return conflictOn(err, "user already has access to this profile")
}

func (r *profileRepository) GetOwnership(ctx context.Context, profileID, userID int32) (*domain.ProfileOwnership, error) {
	o := &domain.ProfileOwnership{}
	query := `SELECT id, profile_id, user_id, role, created_on FROM profile_ownerships
	          WHERE profile_id = $1 AND user_id = $2`
	err := q(ctx, r.db).QueryRowContext(ctx, query, profileID, userID).
		Scan(&o.ID, &o.ProfileID, &o.UserID, &o.Role, &o.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *profileRepository) ListOwnershipsByProfile(ctx context.Context, profileID int32) ([]domain.ProfileOwnership, error) {
	query := `SELECT id, profile_id, user_id, role, created_on FROM profile_ownerships
	          WHERE profile_id = $1 ORDER BY created_on`
	rows, err := q(ctx, r.db).QueryContext(ctx, query, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ownerships []domain.ProfileOwnership
	for rows.Next() {
		var o domain.ProfileOwnership
		if err := rows.Scan(&o.ID, &o.ProfileID, &o.UserID, &o.Role, &o.CreatedOn); err != nil {
			return nil, err
		}
		ownerships = append(ownerships, o)
	}
	return ownerships, rows.Err()
}

func (r *profileRepository) DeleteOwnership(ctx context.Context, profileID, userID int32) error {
	query := `DELETE FROM profile_ownerships WHERE profile_id = $1 AND user_id = $2`
	_, err := q(ctx, r.db).ExecContext(ctx, query, profileID, userID)
	return err
}

func (r *profileRepository) DeleteAdminOwnershipsInCommunity(ctx context.Context, userID, communityID int32) error {
	query := `DELETE FROM profile_ownerships o USING profiles p
	          WHERE o.profile_id = p.id AND o.user_id = $1 AND o.role = $2 AND p.community_id = $3`
	_, err := q(ctx, r.db).ExecContext(ctx, query, userID, domain.OwnershipRoleAdmin, communityID)
	return err
}
