package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/nekogravitycat/shareit-backend/internal/db"
)

// Repository defines methods for accessing booking data from storage.
type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id int64) (*Booking, error)
	Exists(ctx context.Context, id int64) (bool, error)
	// UpdateStatus moves a booking from one status to another.
	// It returns ErrNotWaiting when the booking is no longer in the from status.
	UpdateStatus(ctx context.Context, id int64, from, to Status) error
	List(ctx context.Context, filter Filter) ([]*Booking, error)
}

type pgxRepository struct {
	db db.DBTX
}

// NewPgxRepository creates a new Repository implementation backed by pgx.
func NewPgxRepository(conn db.DBTX) Repository {
	return &pgxRepository{db: conn}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var bookingColumns = []string{
	"b.id", "b.start_time", "b.end_time", "b.status",
	"i.id", "i.name", "i.owner_id",
	"u.id", "u.name",
}

func selectBookings() squirrel.SelectBuilder {
	return psql.Select(bookingColumns...).
		From("public.bookings b").
		Join("public.items i ON i.id = b.item_id").
		Join("public.users u ON u.id = b.booker_id")
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	var status string
	err := row.Scan(
		&b.ID, &b.Start, &b.End, &status,
		&b.Item.ID, &b.Item.Name, &b.Item.OwnerID,
		&b.Booker.ID, &b.Booker.Name,
	)
	if err != nil {
		return nil, err
	}
	b.Status = Status(status)
	return &b, nil
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	query, args, err := psql.Insert("public.bookings").
		Columns("start_time", "end_time", "item_id", "booker_id", "status").
		Values(b.Start, b.End, b.Item.ID, b.Booker.ID, string(b.Status)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&b.ID); err != nil {
		return fmt.Errorf("create booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Booking, error) {
	query, args, err := selectBookings().Where(squirrel.Eq{"b.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM public.bookings WHERE id = $1)", id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check booking exists failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id int64, from, to Status) error {
	query, args, err := psql.Update("public.bookings").
		Set("status", string(to)).
		Where(squirrel.Eq{"id": id, "status": string(from)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking status query failed: %w", err)
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update booking status failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotWaiting
	}
	return nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, error) {
	query := applyFilter(selectBookings(), filter)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings failed: %w", err)
	}
	return bookings, nil
}

func applyFilter(q squirrel.SelectBuilder, f Filter) squirrel.SelectBuilder {
	if f.BookerID > 0 {
		q = q.Where(squirrel.Eq{"b.booker_id": f.BookerID})
	}
	if f.OwnerID > 0 {
		q = q.Where(squirrel.Eq{"i.owner_id": f.OwnerID})
	}
	if f.ItemID > 0 {
		q = q.Where(squirrel.Eq{"b.item_id": f.ItemID})
	}
	if f.Status != "" {
		q = q.Where(squirrel.Eq{"b.status": string(f.Status)})
	}
	if f.ExcludeStatus != "" {
		q = q.Where(squirrel.NotEq{"b.status": string(f.ExcludeStatus)})
	}
	if f.StartAtOrBefore != nil {
		q = q.Where(squirrel.LtOrEq{"b.start_time": *f.StartAtOrBefore})
	}
	if f.StartBefore != nil {
		q = q.Where(squirrel.Lt{"b.start_time": *f.StartBefore})
	}
	if f.StartAfter != nil {
		q = q.Where(squirrel.Gt{"b.start_time": *f.StartAfter})
	}
	if f.EndBefore != nil {
		q = q.Where(squirrel.Lt{"b.end_time": *f.EndBefore})
	}
	if f.EndAfter != nil {
		q = q.Where(squirrel.Gt{"b.end_time": *f.EndAfter})
	}

	if f.Ascending {
		q = q.OrderBy("b.start_time ASC", "b.id ASC")
	} else {
		q = q.OrderBy("b.start_time DESC", "b.id DESC")
	}
	return f.Page.Apply(q)
}
