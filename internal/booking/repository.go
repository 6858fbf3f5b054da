package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	UpdateStatus(ctx context.Context, id string, status Status) error

	// HasOverlap reports whether any non-cancelled booking of the event
	// type intersects the half-open interval [start, end).
	HasOverlap(ctx context.Context, eventTypeID string, start, end time.Time) (bool, error)

	// ConfirmedOnDay returns the confirmed bookings of the event type
	// whose start falls within the UTC day beginning at dayStart.
	ConfirmedOnDay(ctx context.Context, eventTypeID string, dayStart time.Time) ([]*Booking, error)

	// DueReminders returns confirmed bookings that start within their
	// pastor's reminder window and have not been reminded yet.
	DueReminders(ctx context.Context, now time.Time) ([]*Booking, error)
	MarkReminderSent(ctx context.Context, id string, at time.Time) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const selectColumns = `
	b.id, b.event_type_id, et.title, et.slug, et.pastor_id, p.username,
	b.booker_name, b.booker_email, b.answers,
	b.start_time, b.end_time, b.status, b.reminder_sent_at,
	b.created_at, b.updated_at`

const fromClause = `
	public.bookings b
	JOIN public.event_types et ON et.id = b.event_type_id
	JOIN public.pastors p ON p.id = et.pastor_id`

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	var answersRaw []byte
	err := row.Scan(
		&b.ID, &b.EventTypeID, &b.EventTitle, &b.EventSlug, &b.PastorID, &b.PastorUsername,
		&b.BookerName, &b.BookerEmail, &answersRaw,
		&b.StartTime, &b.EndTime, &b.Status, &b.ReminderSentAt,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(answersRaw) > 0 {
		if err := json.Unmarshal(answersRaw, &b.Answers); err != nil {
			return nil, fmt.Errorf("unmarshal answers: %w", err)
		}
	}
	return &b, nil
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	answersJSON, err := json.Marshal(b.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}

	query := `
		INSERT INTO public.bookings
			(event_type_id, booker_name, booker_email, answers, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err = r.pool.QueryRow(ctx, query,
		b.EventTypeID, b.BookerName, b.BookerEmail, answersJSON,
		b.StartTime, b.EndTime, b.Status,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE b.id = $1`, selectColumns, fromClause)

	b, err := scanBooking(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query booking: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	builder := squirrel.Select(
		"b.id", "b.event_type_id", "et.title", "et.slug", "et.pastor_id", "p.username",
		"b.booker_name", "b.booker_email", "b.answers",
		"b.start_time", "b.end_time", "b.status", "b.reminder_sent_at",
		"b.created_at", "b.updated_at",
		"count(*) OVER() AS total",
	).
		From("public.bookings b").
		Join("public.event_types et ON et.id = b.event_type_id").
		Join("public.pastors p ON p.id = et.pastor_id").
		PlaceholderFormat(squirrel.Dollar)

	if filter.PastorID != "" {
		builder = builder.Where(squirrel.Eq{"et.pastor_id": filter.PastorID})
	}
	if filter.EventTypeID != "" {
		builder = builder.Where(squirrel.Eq{"b.event_type_id": filter.EventTypeID})
	}
	if filter.Status != "" {
		builder = builder.Where(squirrel.Eq{"b.status": filter.Status})
	}
	if filter.StartTime != nil {
		builder = builder.Where(squirrel.Gt{"b.end_time": *filter.StartTime})
	}
	if filter.EndTime != nil {
		builder = builder.Where(squirrel.Lt{"b.start_time": *filter.EndTime})
	}

	sortBy := "b.start_time"
	switch filter.SortBy {
	case "created_at":
		sortBy = "b.created_at"
	case "start_time", "":
	default:
		return nil, 0, fmt.Errorf("unsupported sort field: %s", filter.SortBy)
	}
	order := "ASC"
	if filter.SortOrder == "desc" {
		order = "DESC"
	}
	builder = builder.OrderBy(fmt.Sprintf("%s %s", sortBy, order))

	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		builder = builder.Limit(uint64(filter.PageSize)).Offset(uint64(offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int
	for rows.Next() {
		var b Booking
		var answersRaw []byte
		err := rows.Scan(
			&b.ID, &b.EventTypeID, &b.EventTitle, &b.EventSlug, &b.PastorID, &b.PastorUsername,
			&b.BookerName, &b.BookerEmail, &answersRaw,
			&b.StartTime, &b.EndTime, &b.Status, &b.ReminderSentAt,
			&b.CreatedAt, &b.UpdatedAt,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan booking: %w", err)
		}
		if len(answersRaw) > 0 {
			if err := json.Unmarshal(answersRaw, &b.Answers); err != nil {
				return nil, 0, fmt.Errorf("unmarshal answers: %w", err)
			}
		}
		bookings = append(bookings, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate bookings: %w", err)
	}
	return bookings, total, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE public.bookings SET status = $1, updated_at = now() WHERE id = $2`,
		status, id)
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) HasOverlap(ctx context.Context, eventTypeID string, start, end time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM public.bookings
			WHERE event_type_id = $1
			  AND status <> 'cancelled'
			  AND start_time < $3
			  AND end_time > $2
		)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, eventTypeID, start, end).Scan(&exists); err != nil {
		return false, fmt.Errorf("query overlap: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) ConfirmedOnDay(ctx context.Context, eventTypeID string, dayStart time.Time) ([]*Booking, error) {
	dayEnd := dayStart.Add(24 * time.Hour)
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE b.event_type_id = $1
		  AND b.status = 'confirmed'
		  AND b.start_time >= $2
		  AND b.start_time < $3
		ORDER BY b.start_time`, selectColumns, fromClause)

	rows, err := r.pool.Query(ctx, query, eventTypeID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("query day bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}
	return bookings, nil
}

func (r *pgxRepository) DueReminders(ctx context.Context, now time.Time) ([]*Booking, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE b.status = 'confirmed'
		  AND b.reminder_sent_at IS NULL
		  AND b.start_time > $1
		  AND b.start_time <= $1 + make_interval(hours =>
			COALESCE((p.notification_prefs->>'reminder_hours_before')::int, 24))
		ORDER BY b.start_time`, selectColumns, fromClause)

	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("query due reminders: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate due reminders: %w", err)
	}
	return bookings, nil
}

func (r *pgxRepository) MarkReminderSent(ctx context.Context, id string, at time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE public.bookings SET reminder_sent_at = $1, updated_at = now() WHERE id = $2`,
		at, id)
	if err != nil {
		return fmt.Errorf("mark reminder sent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
