package delegation

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, inv *Invitation) error
	GetByID(ctx context.Context, id string) (*Invitation, error)
	ListByOwner(ctx context.Context, ownerID string, filter Filter) ([]*Invitation, int, error)
	ListByInvitee(ctx context.Context, email string, filter Filter) ([]*Invitation, int, error)
	Update(ctx context.Context, inv *Invitation) error

	// HasOpenInvitation reports whether a pending or accepted invitation
	// already exists for the owner/email pair.
	HasOpenInvitation(ctx context.Context, ownerID, email string) (bool, error)

	// HasAcceptedAccess reports whether the email holds accepted access
	// to the owner's agenda.
	HasAcceptedAccess(ctx context.Context, ownerID, email string) (bool, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, inv *Invitation) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.delegation_invitations").
		Columns("owner_id", "invitee_email", "status").
		Values(inv.OwnerID, inv.InviteeEmail, inv.Status).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create invitation query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&inv.ID, &inv.CreatedAt); err != nil {
		return fmt.Errorf("create invitation failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Invitation, error) {
	const query = `
		SELECT i.id, i.owner_id, p.username, i.invitee_email, i.status, i.created_at, i.responded_at
		FROM public.delegation_invitations i
		JOIN public.pastors p ON i.owner_id = p.id
		WHERE i.id = $1
	`

	var inv Invitation
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&inv.ID, &inv.OwnerID, &inv.OwnerUsername, &inv.InviteeEmail,
		&inv.Status, &inv.CreatedAt, &inv.RespondedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get invitation failed: %w", err)
	}
	return &inv, nil
}

func (r *pgxRepository) list(ctx context.Context, cond squirrel.Eq, filter Filter) ([]*Invitation, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	queryBuilder := psql.Select(
		"i.id", "i.owner_id", "p.username", "i.invitee_email",
		"i.status", "i.created_at", "i.responded_at",
		"count(*) OVER() as total_count",
	).
		From("public.delegation_invitations i").
		Join("public.pastors p ON i.owner_id = p.id").
		Where(cond).
		OrderBy("i.created_at DESC")

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
		return nil, 0, fmt.Errorf("build list invitations query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list invitations failed: %w", err)
	}
	defer rows.Close()

	var result []*Invitation
	var total int

	for rows.Next() {
		var inv Invitation
		if err := rows.Scan(
			&inv.ID, &inv.OwnerID, &inv.OwnerUsername, &inv.InviteeEmail,
			&inv.Status, &inv.CreatedAt, &inv.RespondedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan invitation failed: %w", err)
		}
		result = append(result, &inv)
	}

	return result, total, nil
}

func (r *pgxRepository) ListByOwner(ctx context.Context, ownerID string, filter Filter) ([]*Invitation, int, error) {
	return r.list(ctx, squirrel.Eq{"i.owner_id": ownerID}, filter)
}

func (r *pgxRepository) ListByInvitee(ctx context.Context, email string, filter Filter) ([]*Invitation, int, error) {
	return r.list(ctx, squirrel.Eq{"i.invitee_email": email}, filter)
}

func (r *pgxRepository) Update(ctx context.Context, inv *Invitation) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.delegation_invitations").
		Set("status", inv.Status).
		Set("responded_at", inv.RespondedAt).
		Where(squirrel.Eq{"id": inv.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update invitation query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update invitation failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) exists(ctx context.Context, ownerID, email string, statuses []string) (bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	subQuery := psql.Select("1").
		From("public.delegation_invitations").
		Where(squirrel.Eq{"owner_id": ownerID}).
		Where(squirrel.Eq{"invitee_email": email}).
		Where(squirrel.Eq{"status": statuses})

	sql, args, err := subQuery.ToSql()
	if err != nil {
		return false, fmt.Errorf("build invitation exists query failed: %w", err)
	}

	query := "SELECT EXISTS (" + sql + ")"

	var exists bool
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("invitation exists check failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) HasOpenInvitation(ctx context.Context, ownerID, email string) (bool, error) {
	return r.exists(ctx, ownerID, email, []string{string(StatusPending), string(StatusAccepted)})
}

func (r *pgxRepository) HasAcceptedAccess(ctx context.Context, ownerID, email string) (bool, error) {
	return r.exists(ctx, ownerID, email, []string{string(StatusAccepted)})
}
