package booking

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/page"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

const (
	ownerID    int64 = 1
	bookerID   int64 = 2
	strangerID int64 = 3

	itemX           int64 = 10
	itemUnavailable int64 = 11
	itemOfBooker    int64 = 12
)

func newTestService() (*service, *memRepository) {
	repo := newMemRepository()
	users := fakeUsers{
		ownerID:    {ID: ownerID, Name: "Alice", Email: "alice@example.com"},
		bookerID:   {ID: bookerID, Name: "Bob", Email: "bob@example.com"},
		strangerID: {ID: strangerID, Name: "Carol", Email: "carol@example.com"},
	}
	items := fakeItems{
		itemX:           {ID: itemX, Name: "Drill", Description: "Cordless drill", Available: true, OwnerID: ownerID},
		itemUnavailable: {ID: itemUnavailable, Name: "Ladder", Description: "Tall ladder", Available: false, OwnerID: ownerID},
		itemOfBooker:    {ID: itemOfBooker, Name: "Tent", Description: "Two person tent", Available: true, OwnerID: bookerID},
	}
	svc := NewService(repo, users, items).(*service)
	svc.now = func() time.Time { return testNow }
	return svc, repo
}

func at(d time.Duration) *time.Time {
	t := testNow.Add(d)
	return &t
}

const day = 24 * time.Hour

func TestService_ApprovalScenario(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	b, err := svc.Create(ctx, bookerID, CreateRequest{ItemID: itemX, Start: at(day), End: at(2 * day)})
	require.NoError(t, err)
	assert.NotZero(t, b.ID)
	assert.Equal(t, StatusWaiting, b.Status)
	assert.Equal(t, ItemRef{ID: itemX, Name: "Drill", OwnerID: ownerID}, b.Item)
	assert.Equal(t, UserRef{ID: bookerID, Name: "Bob"}, b.Booker)

	approved, err := svc.SetApproval(ctx, b.ID, ownerID, true)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.Status)

	stored, err := svc.Get(ctx, b.ID, bookerID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, stored.Status)

	// One-shot: any second decision conflicts.
	for _, decision := range []bool{true, false} {
		_, err = svc.SetApproval(ctx, b.ID, ownerID, decision)
		assert.ErrorIs(t, err, ErrNotWaiting)
		assert.Equal(t, http.StatusConflict, apperror.StatusOf(err))
	}
}

func TestService_RejectIsOneShot(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	b, err := svc.Create(ctx, bookerID, CreateRequest{ItemID: itemX, Start: at(day), End: at(2 * day)})
	require.NoError(t, err)

	rejected, err := svc.SetApproval(ctx, b.ID, ownerID, false)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, rejected.Status)

	_, err = svc.SetApproval(ctx, b.ID, ownerID, true)
	assert.ErrorIs(t, err, ErrNotWaiting)
}

func TestService_Create_Errors(t *testing.T) {
	tests := []struct {
		name       string
		bookerID   int64
		req        CreateRequest
		wantErr    error
		wantStatus int
	}{
		{"missing item", bookerID, CreateRequest{Start: at(day), End: at(2 * day)}, ErrMalformedRequest, http.StatusBadRequest},
		{"missing start", bookerID, CreateRequest{ItemID: itemX, End: at(2 * day)}, ErrMalformedRequest, http.StatusBadRequest},
		{"missing end", bookerID, CreateRequest{ItemID: itemX, Start: at(day)}, ErrMalformedRequest, http.StatusBadRequest},
		{"start equals end", bookerID, CreateRequest{ItemID: itemX, Start: at(day), End: at(day)}, ErrMalformedRequest, http.StatusBadRequest},
		{"start after end", bookerID, CreateRequest{ItemID: itemX, Start: at(2 * day), End: at(day)}, ErrMalformedRequest, http.StatusBadRequest},
		{"start in the past", bookerID, CreateRequest{ItemID: itemX, Start: at(-time.Hour), End: at(day)}, ErrStartTimePast, http.StatusBadRequest},
		{"unknown booker", 99, CreateRequest{ItemID: itemX, Start: at(day), End: at(2 * day)}, ErrUserNotFound, http.StatusNotFound},
		{"unknown item", bookerID, CreateRequest{ItemID: 99, Start: at(day), End: at(2 * day)}, ErrItemNotFound, http.StatusNotFound},
		{"item unavailable", bookerID, CreateRequest{ItemID: itemUnavailable, Start: at(day), End: at(2 * day)}, ErrItemUnavailable, http.StatusConflict},
		{"owner books own item", ownerID, CreateRequest{ItemID: itemX, Start: at(day), End: at(2 * day)}, ErrOwnerBooking, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestService()

			b, err := svc.Create(context.Background(), tt.bookerID, tt.req)
			assert.Nil(t, b)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantStatus, apperror.StatusOf(err))
			assert.Empty(t, repo.bookings, "failed creation must not persist anything")
		})
	}
}

func TestService_Create_StartingNowIsAccepted(t *testing.T) {
	svc, _ := newTestService()

	b, err := svc.Create(context.Background(), bookerID, CreateRequest{ItemID: itemX, Start: at(0), End: at(time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, testNow, b.Start)
}

// Overlapping bookings of the same item are not rejected; the owner decides.
func TestService_Create_DoubleBookingIsNotRejected(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	first, err := svc.Create(ctx, bookerID, CreateRequest{ItemID: itemX, Start: at(day), End: at(3 * day)})
	require.NoError(t, err)
	second, err := svc.Create(ctx, bookerID, CreateRequest{ItemID: itemX, Start: at(2 * day), End: at(4 * day)})
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, StatusWaiting, first.Status)
	assert.Equal(t, StatusWaiting, second.Status)
}

func TestService_SetApproval_Errors(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	b, err := svc.Create(ctx, bookerID, CreateRequest{ItemID: itemX, Start: at(day), End: at(2 * day)})
	require.NoError(t, err)

	t.Run("unknown booking", func(t *testing.T) {
		_, err := svc.SetApproval(ctx, 999, ownerID, true)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.SetApproval(ctx, b.ID, 99, true)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("booker cannot approve", func(t *testing.T) {
		_, err := svc.SetApproval(ctx, b.ID, bookerID, true)
		assert.ErrorIs(t, err, ErrNotItemOwner)
		assert.Equal(t, http.StatusForbidden, apperror.StatusOf(err))
	})

	t.Run("stranger cannot approve", func(t *testing.T) {
		_, err := svc.SetApproval(ctx, b.ID, strangerID, false)
		assert.ErrorIs(t, err, ErrNotItemOwner)
	})

	stored, err := svc.Get(ctx, b.ID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, StatusWaiting, stored.Status, "failed approvals must not change the booking")
}

// A decision that loses the race against a concurrent one surfaces as a conflict.
func TestService_SetApproval_LostRace(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	b, err := svc.Create(ctx, bookerID, CreateRequest{ItemID: itemX, Start: at(day), End: at(2 * day)})
	require.NoError(t, err)

	svc.repo = &racingRepository{memRepository: repo}
	_, err = svc.SetApproval(ctx, b.ID, ownerID, true)
	assert.ErrorIs(t, err, ErrNotWaiting)

	stored, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, stored.Status)
}

// A booking deleted along with its item between read and update is reported as missing.
func TestService_SetApproval_DeletedMeanwhile(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	b, err := svc.Create(ctx, bookerID, CreateRequest{ItemID: itemX, Start: at(day), End: at(2 * day)})
	require.NoError(t, err)

	svc.repo = &vanishingRepository{memRepository: repo}
	_, err = svc.SetApproval(ctx, b.ID, ownerID, true)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, http.StatusNotFound, apperror.StatusOf(err))

	ok, err := repo.Exists(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

// vanishingRepository drops the booking right after it has been read.
type vanishingRepository struct {
	*memRepository
}

func (r *vanishingRepository) GetByID(ctx context.Context, id int64) (*Booking, error) {
	b, err := r.memRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	delete(r.bookings, id)
	r.mu.Unlock()
	return b, nil
}

// racingRepository rejects the booking right after it has been read,
// as a concurrent owner decision would.
type racingRepository struct {
	*memRepository
}

func (r *racingRepository) GetByID(ctx context.Context, id int64) (*Booking, error) {
	b, err := r.memRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	_ = r.memRepository.UpdateStatus(ctx, id, StatusWaiting, StatusRejected)
	return b, nil
}

func TestService_Get_Visibility(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	b, err := svc.Create(ctx, bookerID, CreateRequest{ItemID: itemX, Start: at(day), End: at(2 * day)})
	require.NoError(t, err)

	for _, uid := range []int64{bookerID, ownerID} {
		got, err := svc.Get(ctx, b.ID, uid)
		require.NoError(t, err)
		assert.Equal(t, b.ID, got.ID)
	}

	_, err = svc.Get(ctx, b.ID, strangerID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, http.StatusNotFound, apperror.StatusOf(err))

	_, err = svc.Get(ctx, 999, bookerID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Get(ctx, b.ID, 99)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

// seedHistory stores bookings of Bob on Alice's drill spread around testNow.
func seedHistory(repo *memRepository) map[string]*Booking {
	drill := ItemRef{ID: itemX, Name: "Drill", OwnerID: ownerID}
	bob := UserRef{ID: bookerID, Name: "Bob"}
	put := func(start, end time.Duration, status Status) *Booking {
		return repo.put(Booking{Start: *at(start), End: *at(end), Item: drill, Booker: bob, Status: status})
	}
	return map[string]*Booking{
		"past approved":    put(-10*day, -9*day, StatusApproved),
		"past rejected":    put(-8*day, -7*day, StatusRejected),
		"current approved": put(-time.Hour, time.Hour, StatusApproved),
		"current from now": put(0, day, StatusWaiting),
		"future waiting":   put(day, 2*day, StatusWaiting),
		"future rejected":  put(3*day, 4*day, StatusRejected),
	}
}

func ids(bookings []*Booking) []int64 {
	out := make([]int64, len(bookings))
	for i, b := range bookings {
		out[i] = b.ID
	}
	return out
}

func TestService_List_SearchModes(t *testing.T) {
	svc, repo := newTestService()
	seeded := seedHistory(repo)
	ctx := context.Background()

	pick := func(names ...string) []int64 {
		var out []int64
		for _, n := range names {
			out = append(out, seeded[n].ID)
		}
		return out
	}

	tests := []struct {
		mode SearchMode
		want []int64
	}{
		{SearchAll, pick("future rejected", "future waiting", "current from now", "current approved", "past rejected", "past approved")},
		{SearchCurrent, pick("current from now", "current approved")},
		{SearchPast, pick("past rejected", "past approved")},
		{SearchFuture, pick("future rejected", "future waiting")},
		{SearchWaiting, pick("future waiting", "current from now")},
		{SearchRejected, pick("future rejected", "past rejected")},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			byBooker, err := svc.ListByBooker(ctx, bookerID, tt.mode.String(), page.All)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(byBooker), "sorted by start descending")

			byOwner, err := svc.ListByOwner(ctx, ownerID, tt.mode.String(), page.All)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(byOwner))

			// Neither side of the booking sees it in the other role.
			none, err := svc.ListByOwner(ctx, bookerID, tt.mode.String(), page.All)
			require.NoError(t, err)
			assert.Empty(t, none)
		})
	}
}

func TestService_List_TimeModesPartitionAll(t *testing.T) {
	svc, repo := newTestService()
	seedHistory(repo)
	ctx := context.Background()

	all, err := svc.ListByBooker(ctx, bookerID, "", page.All)
	require.NoError(t, err)

	seen := map[int64]SearchMode{}
	for _, mode := range []SearchMode{SearchCurrent, SearchPast, SearchFuture} {
		list, err := svc.ListByBooker(ctx, bookerID, mode.String(), page.All)
		require.NoError(t, err)
		for _, b := range list {
			prev, dup := seen[b.ID]
			assert.False(t, dup, "booking %d in both %s and %s", b.ID, prev, mode)
			seen[b.ID] = mode
		}
	}
	assert.ElementsMatch(t, ids(all), mapKeys(seen))
}

func mapKeys(m map[int64]SearchMode) []int64 {
	out := make([]int64, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestService_List_Pagination(t *testing.T) {
	svc, repo := newTestService()
	seedHistory(repo)
	ctx := context.Background()

	all, err := svc.ListByBooker(ctx, bookerID, "all", page.All)
	require.NoError(t, err)
	require.Len(t, all, 6)

	size := 4
	for _, tt := range []struct {
		from int
		want []*Booking
	}{
		{0, all[:4]},
		{3, all[:4]}, // from 3 falls in the first page of 4
		{4, all[4:]},
		{8, nil},
	} {
		from := tt.from
		p, err := page.New(&from, &size)
		require.NoError(t, err)

		got, err := svc.ListByBooker(ctx, bookerID, "ALL", p)
		require.NoError(t, err)
		assert.Equal(t, ids(tt.want), ids(got), "from=%d", tt.from)
	}
}

// Bookings sharing a start time are ordered by id, so pages never overlap.
func TestService_List_SameStartOrderedByID(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	for range 3 {
		_, err := svc.Create(ctx, bookerID, CreateRequest{ItemID: itemX, Start: at(day), End: at(2 * day)})
		require.NoError(t, err)
	}

	all, err := svc.ListByBooker(ctx, bookerID, "", page.All)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 2, 1}, ids(all))

	size := 2
	for from, want := range map[int][]int64{0: {3, 2}, 2: {1}} {
		p, err := page.New(&from, &size)
		require.NoError(t, err)
		got, err := svc.ListByOwner(ctx, ownerID, "waiting", p)
		require.NoError(t, err)
		assert.Equal(t, want, ids(got), "from=%d", from)
	}

	asc, err := repo.List(ctx, Filter{ItemID: itemX, Ascending: true})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids(asc))
}

func TestService_List_Errors(t *testing.T) {
	svc, repo := newTestService()
	seedHistory(repo)
	ctx := context.Background()

	list, err := svc.ListByBooker(ctx, bookerID, "FOOBAR", page.All)
	assert.Nil(t, list)
	assert.ErrorIs(t, err, ErrIllegalSearchMode)
	assert.EqualError(t, err, "Unknown state: FOOBAR")
	assert.Equal(t, http.StatusBadRequest, apperror.StatusOf(err))

	_, err = svc.ListByOwner(ctx, 99, "ALL", page.All)
	assert.ErrorIs(t, err, ErrUserNotFound)

	// The user is checked before the state.
	_, err = svc.ListByBooker(ctx, 99, "FOOBAR", page.All)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Equal(t, http.StatusNotFound, apperror.StatusOf(err))
}

func TestService_Create_LoadsSnapshotsFromDirectories(t *testing.T) {
	repo := newMemRepository()
	users := fakeUsers{bookerID: {ID: bookerID, Name: "Bob"}}
	items := fakeItems{itemX: {ID: itemX, Name: "Drill", Available: true, OwnerID: ownerID}}
	svc := NewService(repo, users, items).(*service)
	svc.now = func() time.Time { return testNow }

	b, err := svc.Create(context.Background(), bookerID, CreateRequest{ItemID: itemX, Start: at(day), End: at(2 * day)})
	require.NoError(t, err)

	stored, err := repo.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, *b, *stored)
}
