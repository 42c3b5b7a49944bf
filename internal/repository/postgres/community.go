package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"commonground-backend/internal/domain"
	"commonground-backend/internal/repository"
)

type communityRepository struct {
	db *sql.DB
}

func NewCommunityRepository(db *sql.DB) repository.CommunityRepository {
	return &communityRepository{db: db}
}

const communityColumns = `id, slug, name, starts_on, ends_on, created_on`

func scanCommunity(row *sql.Row) (*domain.Community, error) {
	c := &domain.Community{}
	err := row.Scan(&c.ID, &c.Slug, &c.Name, &c.StartsOn, &c.EndsOn, &c.CreatedOn)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *communityRepository) Create(ctx context.Context, c *domain.Community) error {
	query := `INSERT INTO communities (slug, name, starts_on, ends_on, created_on)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id, created_on`
	err := q(ctx, r.db).QueryRowContext(ctx, query, c.Slug, c.Name, c.StartsOn, c.EndsOn, time.Now()).
		Scan(&c.ID, &c.CreatedOn)
	return conflictOn(err, "community slug is already taken")
}

func (r *communityRepository) GetByID(ctx context.Context, id int32) (*domain.Community, error) {
	query := `SELECT ` + communityColumns + ` FROM communities WHERE id = $1`
	c, err := scanCommunity(q(ctx, r.db).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundError("community %d not found", id)
	}
	return c, err
}

func (r *communityRepository) GetBySlug(ctx context.Context, slug string) (*domain.Community, error) {
	query := `SELECT ` + communityColumns + ` FROM communities WHERE slug = $1`
	c, err := scanCommunity(q(ctx, r.db).QueryRowContext(ctx, query, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundError("community %q not found", slug)
	}
	return c, err
}

func (r *communityRepository) List(ctx context.Context) ([]domain.Community, error) {
	query := `SELECT ` + communityColumns + ` FROM communities ORDER BY created_on`
	rows, err := q(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var communities []domain.Community
	for rows.Next() {
		var c domain.Community
		if err := rows.Scan(&c.ID, &c.Slug, &c.Name, &c.StartsOn, &c.EndsOn, &c.CreatedOn); err != nil {
			return nil, err
		}
		communities = append(communities, c)
	}
	return communities, rows.Err()
}
