package courier_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"courier-dispatch/internal/apperr"
	"courier-dispatch/internal/domain"
	"courier-dispatch/internal/geo"
	"courier-dispatch/internal/logx"
	"courier-dispatch/internal/repository/memory"
	"courier-dispatch/internal/service/courier"
)

var shop = domain.Point{Lon: 31.9957, Lat: 36.5441}

// north returns a point dist meters north of shop.
func north(dist float64) domain.Point {
	return domain.Point{Lon: shop.Lon, Lat: shop.Lat + dist/111194.93}
}

func newCtrl(t *testing.T) *gomock.Controller {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return ctrl
}

type fixture struct {
	svc   *courier.Service
	repo  *memory.CourierRepo
	index *geo.GridIndex
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	repo := memory.NewCourierRepo()
	index := geo.NewGridIndex(0.01)
	return fixture{
		svc:   courier.NewService(repo, index, nil, time.Second, logx.Nop()),
		repo:  repo,
		index: index,
	}
}

func (f fixture) onlineAt(t *testing.T, phone string, p domain.Point) int64 {
	t.Helper()
	ctx := context.Background()
	c, err := f.svc.Register(ctx, "Courier", phone)
	require.NoError(t, err)
	require.NoError(t, f.svc.ReportLocation(ctx, c.ID, p))
	_, err = f.svc.SetActive(ctx, c.ID, true)
	require.NoError(t, err)
	return c.ID
}

func TestService_RegisterStartsOffline(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	c, err := f.svc.Register(context.Background(), " Mehmet ", "+905550000001")
	require.NoError(t, err)
	require.Equal(t, "Mehmet", c.Name)
	require.False(t, c.Active)
	require.Equal(t, domain.CourierOffline, c.Status)

	_, err = f.svc.Register(context.Background(), "", "+905550000001")
	require.ErrorIs(t, err, apperr.ErrInvalid)
}

func TestService_GetUnknown(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.svc.Get(context.Background(), 42)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestService_ReportLocation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	err := f.svc.ReportLocation(ctx, 42, shop)
	require.ErrorIs(t, err, apperr.ErrNotFound)

	err = f.svc.ReportLocation(ctx, 1, domain.Point{Lon: 500, Lat: 0})
	require.ErrorIs(t, err, apperr.ErrInvalid)

	id := f.onlineAt(t, "+905550000001", north(100))
	require.NoError(t, f.svc.ReportLocation(ctx, id, north(200)))

	got, err := f.index.Within(ctx, shop, 1000)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.InDelta(t, 200, got[0].DistanceMeters, 1)
}

func TestService_Nearest_SkipsBusyAndPicksClosest(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	a := f.onlineAt(t, "+905550000001", north(50))
	b := f.onlineAt(t, "+905550000002", north(500))

	ok, err := f.svc.TryReserve(ctx, a)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := f.svc.Nearest(ctx, shop, courier.Reservable, 50_000)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, b, got.ID)
}

func TestService_Nearest_NoneWithinRadius(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.onlineAt(t, "+905550000001", north(60_000))

	got, err := f.svc.Nearest(context.Background(), shop, courier.Reservable, 50_000)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestService_Nearest_TieGoesToLowerID(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	first := f.onlineAt(t, "+905550000001", north(300))
	f.onlineAt(t, "+905550000002", north(300))

	got, err := f.svc.Nearest(context.Background(), shop, courier.Reservable, 1000)
	require.NoError(t, err)
	require.Equal(t, first, got.ID)
}

func TestService_FindNearest(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	a := f.onlineAt(t, "+905550000001", north(900))
	b := f.onlineAt(t, "+905550000002", north(100))
	c := f.onlineAt(t, "+905550000003", north(400))
	_, err := f.svc.SetActive(ctx, c, false)
	require.NoError(t, err)

	got, err := f.svc.FindNearest(ctx, shop, 100_000, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, b, got[0].Courier.ID)
	require.Equal(t, a, got[1].Courier.ID)

	got, err = f.svc.FindNearest(ctx, shop, 100_000, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)

	_, err = f.svc.FindNearest(ctx, shop, 100_000, 0)
	require.ErrorIs(t, err, apperr.ErrInvalid)
}

func TestService_ReleaseSemantics(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	id := f.onlineAt(t, "+905550000001", north(10))
	ok, err := f.svc.TryReserve(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, f.svc.Release(ctx, id))
	c, err := f.svc.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, domain.CourierAvailable, c.Status)

	// releasing an available courier is a no-op
	require.NoError(t, f.svc.Release(ctx, id))

	_, err = f.svc.SetActive(ctx, id, false)
	require.NoError(t, err)
	require.NoError(t, f.svc.Release(ctx, id))
	c, err = f.svc.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, domain.CourierOffline, c.Status)

	require.ErrorIs(t, f.svc.Release(ctx, 999), apperr.ErrNotFound)
}

func TestService_TryReserveInactive(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.svc.Register(ctx, "A", "+905550000001")
	require.NoError(t, err)
	ok, err := f.svc.TryReserve(ctx, c.ID)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestService_WarmIndex(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := memory.NewCourierRepo()
	id, err := repo.Create(ctx, &domain.Courier{Name: "A", Phone: "+905550000001", Active: true, Status: domain.CourierAvailable})
	require.NoError(t, err)
	_, err = repo.UpdateLocation(ctx, id, north(10))
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.Courier{Name: "B", Phone: "+905550000002"})
	require.NoError(t, err)

	index := geo.NewGridIndex(0.01)
	svc := courier.NewService(repo, index, nil, time.Second, logx.Nop())
	n, err := svc.WarmIndex(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	got, err := svc.Nearest(ctx, shop, courier.Reservable, 100)
	require.NoError(t, err)
	require.Equal(t, id, got.ID)
}

func TestService_SetActivePublishes(t *testing.T) {
	t.Parallel()
	ctrl := newCtrl(t)
	repo := NewMockRepository(ctrl)
	pub := NewMockPublisher(ctrl)

	repo.EXPECT().SetActive(gomock.Any(), int64(7), true).
		Return(&domain.Courier{ID: 7, Active: true, Status: domain.CourierAvailable}, nil)
	pub.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e domain.Event) error {
		require.Equal(t, domain.EventCourierStatusChanged, e.Type)
		require.Equal(t, int64(7), e.CourierID)
		require.Equal(t, "available", e.Status)
		require.NotEmpty(t, e.ID)
		return errors.New("broker down")
	})

	svc := courier.NewService(repo, geo.NewGridIndex(0.01), pub, time.Second, logx.Nop())
	c, err := svc.SetActive(context.Background(), 7, true)
	require.NoError(t, err, "publish failures must not fail the operation")
	require.Equal(t, domain.CourierAvailable, c.Status)
}

func TestService_SetActiveUnknown(t *testing.T) {
	t.Parallel()
	ctrl := newCtrl(t)
	repo := NewMockRepository(ctrl)
	repo.EXPECT().SetActive(gomock.Any(), int64(7), false).Return(nil, nil)

	svc := courier.NewService(repo, geo.NewGridIndex(0.01), nil, time.Second, logx.Nop())
	_, err := svc.SetActive(context.Background(), 7, false)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestService_TryReserveRepoError(t *testing.T) {
	t.Parallel()
	ctrl := newCtrl(t)
	repo := NewMockRepository(ctrl)
	boom := errors.New("db down")
	repo.EXPECT().Reserve(gomock.Any(), int64(3)).Return(false, boom)

	svc := courier.NewService(repo, geo.NewGridIndex(0.01), nil, time.Second, logx.Nop())
	ok, err := svc.TryReserve(context.Background(), 3)
	require.ErrorIs(t, err, boom)
	require.False(t, ok)
}

func TestService_ReleaseSingleRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		released bool
		found    bool
		wantErr  error
	}{
		{name: "freed", released: true, found: true},
		{name: "not busy", released: false, found: true},
		{name: "unknown", released: false, found: false, wantErr: apperr.ErrNotFound},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := newCtrl(t)
			repo := NewMockRepository(ctrl)
			// no Get: existence comes back with the update
			repo.EXPECT().Release(gomock.Any(), int64(4)).Return(tt.released, tt.found, nil)

			svc := courier.NewService(repo, geo.NewGridIndex(0.01), nil, time.Second, logx.Nop())
			err := svc.Release(context.Background(), 4)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}
