package eventtype

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, et *EventType) error
	GetByID(ctx context.Context, id string) (*EventType, error)
	GetByPastorAndSlug(ctx context.Context, pastorID, slug string) (*EventType, error)
	List(ctx context.Context, filter Filter) ([]*EventType, int, error)
	Update(ctx context.Context, et *EventType) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func marshalTemplate(et *EventType) (availabilityJSON, questionsJSON []byte, err error) {
	availabilityJSON, err = json.Marshal(et.Availability)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal availability failed: %w", err)
	}
	questions := et.Questions
	if questions == nil {
		questions = []Question{}
	}
	questionsJSON, err = json.Marshal(questions)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal questions failed: %w", err)
	}
	return availabilityJSON, questionsJSON, nil
}

func scanEventType(row pgx.Row) (*EventType, error) {
	var et EventType
	var availabilityJSON, questionsJSON []byte

	if err := row.Scan(
		&et.ID, &et.PastorID, &et.PastorUsername, &et.Slug, &et.Title, &et.Description,
		&et.DurationMinutes, &availabilityJSON, &questionsJSON, &et.IsActive,
		&et.CreatedAt, &et.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan event type failed: %w", err)
	}

	if len(availabilityJSON) > 0 {
		if err := json.Unmarshal(availabilityJSON, &et.Availability); err != nil {
			return nil, fmt.Errorf("unmarshal availability for event type %s failed: %w", et.ID, err)
		}
	}
	if len(questionsJSON) > 0 {
		if err := json.Unmarshal(questionsJSON, &et.Questions); err != nil {
			return nil, fmt.Errorf("unmarshal questions for event type %s failed: %w", et.ID, err)
		}
	}

	return &et, nil
}

const selectColumns = `
	et.id, et.pastor_id, p.username, et.slug, et.title, et.description,
	et.duration_minutes, et.availability, et.questions, et.is_active,
	et.created_at, et.updated_at
`

func (r *pgxRepository) Create(ctx context.Context, et *EventType) error {
	availabilityJSON, questionsJSON, err := marshalTemplate(et)
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO public.event_types
			(pastor_id, slug, title, description, duration_minutes, availability, questions, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	if err := r.pool.QueryRow(
		ctx, query,
		et.PastorID, et.Slug, et.Title, et.Description, et.DurationMinutes,
		availabilityJSON, questionsJSON, et.IsActive,
	).Scan(&et.ID, &et.CreatedAt, &et.UpdatedAt); err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			return ErrSlugTaken
		}
		return fmt.Errorf("create event type failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*EventType, error) {
	const query = `
		SELECT ` + selectColumns + `
		FROM public.event_types et
		JOIN public.pastors p ON et.pastor_id = p.id
		WHERE et.id = $1
	`
	return scanEventType(r.pool.QueryRow(ctx, query, id))
}

func (r *pgxRepository) GetByPastorAndSlug(ctx context.Context, pastorID, slug string) (*EventType, error) {
	const query = `
		SELECT ` + selectColumns + `
		FROM public.event_types et
		JOIN public.pastors p ON et.pastor_id = p.id
		WHERE et.pastor_id = $1 AND et.slug = $2
	`
	return scanEventType(r.pool.QueryRow(ctx, query, pastorID, slug))
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*EventType, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	queryBuilder := psql.Select(
		"et.id", "et.pastor_id", "p.username", "et.slug", "et.title", "et.description",
		"et.duration_minutes", "et.availability", "et.questions", "et.is_active",
		"et.created_at", "et.updated_at",
		"count(*) OVER() as total_count",
	).
		From("public.event_types et").
		Join("public.pastors p ON et.pastor_id = p.id")

	if filter.PastorID != "" {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"et.pastor_id": filter.PastorID})
	}
	if filter.ActiveOnly {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"et.is_active": true})
	}

	queryBuilder = queryBuilder.OrderBy("et.created_at ASC")

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
		return nil, 0, fmt.Errorf("build list event types query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list event types failed: %w", err)
	}
	defer rows.Close()

	var result []*EventType
	var total int

	for rows.Next() {
		var et EventType
		var availabilityJSON, questionsJSON []byte
		if err := rows.Scan(
			&et.ID, &et.PastorID, &et.PastorUsername, &et.Slug, &et.Title, &et.Description,
			&et.DurationMinutes, &availabilityJSON, &questionsJSON, &et.IsActive,
			&et.CreatedAt, &et.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan event type failed: %w", err)
		}
		if len(availabilityJSON) > 0 {
			if err := json.Unmarshal(availabilityJSON, &et.Availability); err != nil {
				return nil, 0, fmt.Errorf("unmarshal availability for event type %s failed: %w", et.ID, err)
			}
		}
		if len(questionsJSON) > 0 {
			if err := json.Unmarshal(questionsJSON, &et.Questions); err != nil {
				return nil, 0, fmt.Errorf("unmarshal questions for event type %s failed: %w", et.ID, err)
			}
		}
		result = append(result, &et)
	}

	return result, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, et *EventType) error {
	availabilityJSON, questionsJSON, err := marshalTemplate(et)
	if err != nil {
		return err
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.event_types").
		Set("slug", et.Slug).
		Set("title", et.Title).
		Set("description", et.Description).
		Set("duration_minutes", et.DurationMinutes).
		Set("availability", availabilityJSON).
		Set("questions", questionsJSON).
		Set("is_active", et.IsActive).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": et.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update event type query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			return ErrSlugTaken
		}
		return fmt.Errorf("update event type failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.event_types").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete event type query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete event type failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
