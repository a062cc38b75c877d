package deal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dealhive/dealhive/domain"
)

type mockDealRepo struct {
	mock.Mock
}

func (m *mockDealRepo) Fetch(ctx context.Context, cursor string, num int64) ([]domain.Deal, error) {
	args := m.Called(ctx, cursor, num)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Deal), args.Error(1)
}

func (m *mockDealRepo) GetByID(ctx context.Context, id int64) (domain.Deal, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Deal), args.Error(1)
}

func (m *mockDealRepo) AddHeat(ctx context.Context, id int64, delta int64) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

func (m *mockDealRepo) FetchIDs(ctx context.Context, cursor, limit int64) ([]int64, error) {
	args := m.Called(ctx, cursor, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

type mockBloomRepo struct {
	mock.Mock
}

func (m *mockBloomRepo) Add(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockBloomRepo) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockBloomRepo) BulkAdd(ctx context.Context, ids []int64) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

type mockDealCache struct {
	mock.Mock
}

func (m *mockDealCache) GetDeal(ctx context.Context, id int64) (domain.Deal, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Deal), args.Error(1)
}

func (m *mockDealCache) SetDeal(ctx context.Context, d *domain.Deal) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *mockDealCache) DeleteDeal(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockDealCache) GetHome(ctx context.Context) ([]domain.Deal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Deal), args.Error(1)
}

func (m *mockDealCache) SetHome(ctx context.Context, deals []domain.Deal) error {
	args := m.Called(ctx, deals)
	return args.Error(0)
}

func (m *mockDealCache) IncrHeat(ctx context.Context, id int64, delta int64) (int64, error) {
	args := m.Called(ctx, id, delta)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockDealCache) GetHeat(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockDealCache) FetchAndResetHeat(ctx context.Context) (map[int64]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]int64), args.Error(1)
}

func newTestService() (*Service, *mockDealRepo, *mockDealCache, *mockBloomRepo) {
	repo := new(mockDealRepo)
	cache := new(mockDealCache)
	bloom := new(mockBloomRepo)
	return NewService(repo, cache, bloom), repo, cache, bloom
}

func TestFetch(t *testing.T) {
	svc, repo, _, _ := newTestService()

	created := time.Date(2025, 6, 14, 9, 30, 0, 0, time.UTC)
	repo.On("Fetch", mock.Anything, "", int64(10)).Return([]domain.Deal{
		{ID: 2, CreatedAt: created},
		{ID: 1, CreatedAt: created.Add(-time.Hour)},
	}, nil)

	deals, nextCursor, err := svc.Fetch(context.Background(), "", 10)
	require.NoError(t, err)
	assert.Len(t, deals, 2)
	assert.NotEmpty(t, nextCursor)
}

func TestFetchEmptyPage(t *testing.T) {
	svc, repo, _, _ := newTestService()

	repo.On("Fetch", mock.Anything, "", int64(10)).Return([]domain.Deal{}, nil)

	deals, nextCursor, err := svc.Fetch(context.Background(), "", 10)
	require.NoError(t, err)
	assert.Empty(t, deals)
	assert.Empty(t, nextCursor)
}

func TestGetByIDMergesBufferedHeat(t *testing.T) {
	svc, repo, cache, bloom := newTestService()

	bloom.On("Exists", mock.Anything, int64(1)).Return(true, nil)
	repo.On("GetByID", mock.Anything, int64(1)).Return(domain.Deal{ID: 1, Temperature: "120"}, nil)
	cache.On("GetHeat", mock.Anything, int64(1)).Return(int64(5), nil)

	deal, err := svc.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "125", deal.Temperature)
}

func TestGetByIDHeatBufferErrorIsNotFatal(t *testing.T) {
	svc, repo, cache, bloom := newTestService()

	bloom.On("Exists", mock.Anything, int64(1)).Return(true, nil)
	repo.On("GetByID", mock.Anything, int64(1)).Return(domain.Deal{ID: 1, Temperature: "120"}, nil)
	cache.On("GetHeat", mock.Anything, int64(1)).Return(int64(0), errors.New("redis down"))

	deal, err := svc.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "120", deal.Temperature)
}

func TestGetByIDUnknownDeal(t *testing.T) {
	svc, repo, _, bloom := newTestService()

	bloom.On("Exists", mock.Anything, int64(404)).Return(false, nil)

	_, err := svc.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	repo.AssertNotCalled(t, "GetByID")
}

func TestVote(t *testing.T) {
	t.Run("hot vote lands in the buffer only", func(t *testing.T) {
		svc, repo, cache, bloom := newTestService()

		bloom.On("Exists", mock.Anything, int64(1)).Return(true, nil)
		cache.On("IncrHeat", mock.Anything, int64(1), int64(1)).Return(int64(6), nil)

		require.NoError(t, svc.Vote(context.Background(), 1, int64(domain.VoteHot)))
		cache.AssertCalled(t, "IncrHeat", mock.Anything, int64(1), int64(1))
		// The stored temperature is only touched by the drain worker.
		repo.AssertNotCalled(t, "AddHeat")
	})

	t.Run("cold vote", func(t *testing.T) {
		svc, _, cache, bloom := newTestService()

		bloom.On("Exists", mock.Anything, int64(1)).Return(true, nil)
		cache.On("IncrHeat", mock.Anything, int64(1), int64(-1)).Return(int64(4), nil)

		require.NoError(t, svc.Vote(context.Background(), 1, int64(domain.VoteCold)))
	})

	t.Run("invalid delta", func(t *testing.T) {
		svc, _, cache, _ := newTestService()

		err := svc.Vote(context.Background(), 1, 5)
		assert.ErrorIs(t, err, domain.ErrBadParamInput)
		cache.AssertNotCalled(t, "IncrHeat")
	})
}

func TestInitBloomFilter(t *testing.T) {
	svc, repo, _, bloom := newTestService()

	repo.On("FetchIDs", mock.Anything, int64(0), int64(bloomBatchSize)).
		Return([]int64{1, 2, 3}, nil)
	repo.On("FetchIDs", mock.Anything, int64(3), int64(bloomBatchSize)).
		Return([]int64{}, nil)
	bloom.On("BulkAdd", mock.Anything, []int64{1, 2, 3}).Return(nil)

	require.NoError(t, svc.InitBloomFilter(context.Background()))
	bloom.AssertCalled(t, "BulkAdd", mock.Anything, []int64{1, 2, 3})
}

func TestAddToTemperature(t *testing.T) {
	assert.Equal(t, "121", addToTemperature("120", 1))
	assert.Equal(t, "119", addToTemperature("120", -1))
	assert.Equal(t, "1", addToTemperature("garbage", 1))
	assert.Equal(t, "-1", addToTemperature("", -1))
	assert.Equal(t, "120.5", addToTemperature(" 119.5 ", 1))
}
