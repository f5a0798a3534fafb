package booking

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/page"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepository(t *testing.T) (Repository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPgxRepository(mock), mock
}

var bookingRowColumns = []string{"id", "start_time", "end_time", "status", "item_id", "item_name", "owner_id", "booker_id", "booker_name"}

func TestPgxRepository_Create(t *testing.T) {
	repo, mock := newMockRepository(t)

	start := testNow.Add(day)
	end := testNow.Add(2 * day)
	mock.ExpectQuery(regexp.QuoteMeta(
		"INSERT INTO public.bookings (start_time,end_time,item_id,booker_id,status) VALUES ($1,$2,$3,$4,$5) RETURNING id",
	)).
		WithArgs(start, end, itemX, bookerID, "WAITING").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(41)))

	b := &Booking{Start: start, End: end, Item: ItemRef{ID: itemX}, Booker: UserRef{ID: bookerID}, Status: StatusWaiting}
	require.NoError(t, repo.Create(context.Background(), b))
	assert.Equal(t, int64(41), b.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgxRepository_GetByID(t *testing.T) {
	repo, mock := newMockRepository(t)
	query := regexp.QuoteMeta("FROM public.bookings b JOIN public.items i ON i.id = b.item_id JOIN public.users u ON u.id = b.booker_id WHERE b.id = $1")

	start := testNow.Add(day)
	end := testNow.Add(2 * day)
	mock.ExpectQuery(query).
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows(bookingRowColumns).
			AddRow(int64(5), start, end, "APPROVED", itemX, "Drill", ownerID, bookerID, "Bob"))

	b, err := repo.GetByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, &Booking{
		ID:     5,
		Start:  start,
		End:    end,
		Item:   ItemRef{ID: itemX, Name: "Drill", OwnerID: ownerID},
		Booker: UserRef{ID: bookerID, Name: "Bob"},
		Status: StatusApproved,
	}, b)

	mock.ExpectQuery(query).WithArgs(int64(6)).WillReturnError(pgx.ErrNoRows)
	_, err = repo.GetByID(context.Background(), 6)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgxRepository_UpdateStatus_IsConditional(t *testing.T) {
	repo, mock := newMockRepository(t)
	query := regexp.QuoteMeta("UPDATE public.bookings SET status = $1 WHERE id = $2 AND status = $3")

	mock.ExpectExec(query).
		WithArgs("APPROVED", int64(5), "WAITING").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, repo.UpdateStatus(context.Background(), 5, StatusWaiting, StatusApproved))

	// The booking was decided in the meantime: nothing matches.
	mock.ExpectExec(query).
		WithArgs("REJECTED", int64(5), "WAITING").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	err := repo.UpdateStatus(context.Background(), 5, StatusWaiting, StatusRejected)
	assert.ErrorIs(t, err, ErrNotWaiting)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgxRepository_List(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"WHERE b.booker_id = $1 AND b.status = $2 ORDER BY b.start_time DESC, b.id DESC LIMIT 2 OFFSET 2",
	)).
		WithArgs(bookerID, "WAITING").
		WillReturnRows(pgxmock.NewRows(bookingRowColumns).
			AddRow(int64(9), testNow.Add(2*day), testNow.Add(3*day), "WAITING", itemX, "Drill", ownerID, bookerID, "Bob").
			AddRow(int64(8), testNow.Add(day), testNow.Add(2*day), "WAITING", itemX, "Drill", ownerID, bookerID, "Bob"))

	list, err := repo.List(context.Background(), Filter{
		BookerID: bookerID,
		Status:   StatusWaiting,
		Page:     page.Page{Offset: 2, Limit: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{9, 8}, ids(list))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgxRepository_List_TimeModes(t *testing.T) {
	now := testNow
	tests := []struct {
		name   string
		filter Filter
		where  string
		args   []any
	}{
		{
			name:   "current for owner",
			filter: Filter{OwnerID: ownerID, StartAtOrBefore: &now, EndAfter: &now},
			where:  "WHERE i.owner_id = $1 AND b.start_time <= $2 AND b.end_time > $3 ORDER BY b.start_time DESC",
			args:   []any{ownerID, now, now},
		},
		{
			name:   "past",
			filter: Filter{BookerID: bookerID, EndBefore: &now},
			where:  "WHERE b.booker_id = $1 AND b.end_time < $2 ORDER BY",
			args:   []any{bookerID, now},
		},
		{
			name:   "next of item",
			filter: Filter{ItemID: itemX, ExcludeStatus: StatusRejected, StartAfter: &now, Ascending: true, Page: page.Page{Limit: 1}},
			where:  "WHERE b.item_id = $1 AND b.status <> $2 AND b.start_time > $3 ORDER BY b.start_time ASC, b.id ASC LIMIT 1",
			args:   []any{itemX, "REJECTED", now},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)
			mock.ExpectQuery(regexp.QuoteMeta(tt.where)).
				WithArgs(tt.args...).
				WillReturnRows(pgxmock.NewRows(bookingRowColumns))

			list, err := repo.List(context.Background(), tt.filter)
			require.NoError(t, err)
			assert.Empty(t, list)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPgxRepository_List_QueryError(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery("SELECT").
		WithArgs(bookerID).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.List(context.Background(), Filter{BookerID: bookerID})
	assert.ErrorContains(t, err, "list bookings failed")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgxRepository_Exists(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM public.bookings WHERE id = $1)")).
		WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.Exists(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
