package pastor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines methods for accessing pastor accounts from storage.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Pastor, error)
	GetByEmail(ctx context.Context, email string) (*Pastor, error)
	GetByUsername(ctx context.Context, username string) (*Pastor, error)
	Create(ctx context.Context, p *Pastor) error
	Update(ctx context.Context, p *Pastor) error
	UpdateLastLogin(ctx context.Context, id string, t time.Time) error
	List(ctx context.Context, filter Filter) ([]*Pastor, int, error)
}

const pastorColumns = `
	p.id,
	p.username,
	p.email,
	p.password_hash,
	p.display_name,
	p.bio,
	p.avatar_file_id,
	p.is_active,
	p.is_system_admin,
	p.notification_prefs,
	p.created_at,
	p.last_login_at
`

type pgxRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository creates a new Repository implementation using pgxpool.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) getWhere(ctx context.Context, cond string, arg any) (*Pastor, error) {
	query := `SELECT ` + pastorColumns + ` FROM public.pastors p WHERE ` + cond

	row := r.pool.QueryRow(ctx, query, arg)

	var p Pastor
	var prefsJSON []byte

	if err := row.Scan(
		&p.ID,
		&p.Username,
		&p.Email,
		&p.PasswordHash,
		&p.DisplayName,
		&p.Bio,
		&p.AvatarFileID,
		&p.IsActive,
		&p.IsSystemAdmin,
		&prefsJSON,
		&p.CreatedAt,
		&p.LastLoginAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get pastor failed: %w", err)
	}

	if len(prefsJSON) > 0 {
		if err := json.Unmarshal(prefsJSON, &p.Prefs); err != nil {
			return nil, fmt.Errorf("unmarshal notification prefs for pastor %s failed: %w", p.ID, err)
		}
	}

	return &p, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Pastor, error) {
	return r.getWhere(ctx, "p.id = $1", id)
}

func (r *pgxRepository) GetByEmail(ctx context.Context, email string) (*Pastor, error) {
	return r.getWhere(ctx, "p.email = $1", email)
}

func (r *pgxRepository) GetByUsername(ctx context.Context, username string) (*Pastor, error) {
	return r.getWhere(ctx, "p.username = $1", username)
}

func (r *pgxRepository) Create(ctx context.Context, p *Pastor) error {
	const query = `
		INSERT INTO public.pastors
			(username, email, password_hash, display_name, bio, is_active, is_system_admin, notification_prefs)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	prefsJSON, err := json.Marshal(p.Prefs)
	if err != nil {
		return fmt.Errorf("marshal notification prefs failed: %w", err)
	}

	if err := r.pool.QueryRow(
		ctx,
		query,
		p.Username,
		p.Email,
		p.PasswordHash,
		p.DisplayName,
		p.Bio,
		p.IsActive,
		p.IsSystemAdmin,
		prefsJSON,
	).Scan(&p.ID, &p.CreatedAt); err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			if strings.Contains(e.ConstraintName, "username") {
				return ErrUsernameAlreadyUsed
			}
			return ErrEmailAlreadyUsed
		}
		return fmt.Errorf("create pastor failed: %w", err)
	}

	return nil
}

func (r *pgxRepository) Update(ctx context.Context, p *Pastor) error {
	prefsJSON, err := json.Marshal(p.Prefs)
	if err != nil {
		return fmt.Errorf("marshal notification prefs failed: %w", err)
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.pastors").
		Set("display_name", p.DisplayName).
		Set("bio", p.Bio).
		Set("avatar_file_id", p.AvatarFileID).
		Set("is_active", p.IsActive).
		Set("is_system_admin", p.IsSystemAdmin).
		Set("notification_prefs", prefsJSON).
		Where(squirrel.Eq{"id": p.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update pastor query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update pastor failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) UpdateLastLogin(ctx context.Context, id string, t time.Time) error {
	const query = `
		UPDATE public.pastors
		SET last_login_at = $1
		WHERE id = $2
	`

	ct, err := r.pool.Exec(ctx, query, t, id)
	if err != nil {
		return fmt.Errorf("update last login failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Pastor, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	queryBuilder := psql.Select(
		"p.id", "p.username", "p.email", "p.password_hash", "p.display_name", "p.bio",
		"p.avatar_file_id", "p.is_active", "p.is_system_admin", "p.notification_prefs",
		"p.created_at", "p.last_login_at",
		"count(*) OVER() as total_count",
	).From("public.pastors p")

	if filter.Email != "" {
		queryBuilder = queryBuilder.Where(squirrel.ILike{"p.email": "%" + filter.Email + "%"})
	}
	if filter.DisplayName != "" {
		queryBuilder = queryBuilder.Where(squirrel.ILike{"p.display_name": "%" + filter.DisplayName + "%"})
	}
	if filter.IsActive != nil {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"p.is_active": *filter.IsActive})
	}

	// Sorting
	orderBy := "created_at"
	if filter.SortBy != "" {
		orderBy = filter.SortBy
	}

	orderDir := "DESC"
	if filter.SortOrder != "" {
		orderDir = filter.SortOrder
	}

	queryBuilder = queryBuilder.OrderBy("p." + orderBy + " " + orderDir)

	// Pagination
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	queryBuilder = queryBuilder.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list pastors query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list pastors failed: %w", err)
	}
	defer rows.Close()

	var pastors []*Pastor
	var total int

	for rows.Next() {
		var p Pastor
		var prefsJSON []byte
		if err := rows.Scan(
			&p.ID, &p.Username, &p.Email, &p.PasswordHash, &p.DisplayName, &p.Bio,
			&p.AvatarFileID, &p.IsActive, &p.IsSystemAdmin, &prefsJSON,
			&p.CreatedAt, &p.LastLoginAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan pastor failed: %w", err)
		}
		if len(prefsJSON) > 0 {
			if err := json.Unmarshal(prefsJSON, &p.Prefs); err != nil {
				return nil, 0, fmt.Errorf("unmarshal notification prefs for pastor %s failed: %w", p.ID, err)
			}
		}
		pastors = append(pastors, &p)
	}

	return pastors, total, nil
}
