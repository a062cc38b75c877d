package report

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dealhive/dealhive/domain"
)

type mockReportRepo struct {
	mock.Mock
}

func (m *mockReportRepo) Store(ctx context.Context, r *domain.Report) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

type mockCommentRepo struct {
	mock.Mock
}

func (m *mockCommentRepo) Store(ctx context.Context, c *domain.Comment) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *mockCommentRepo) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}

func (m *mockCommentRepo) Update(ctx context.Context, c *domain.Comment) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *mockCommentRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockCommentRepo) FetchByDeal(ctx context.Context, dealID int64) ([]domain.Comment, error) {
	args := m.Called(ctx, dealID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Comment), args.Error(1)
}

func (m *mockCommentRepo) CountVisibleByUser(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
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

func newTestService() (*Service, *mockReportRepo, *mockCommentRepo, *mockBloomRepo) {
	reports := new(mockReportRepo)
	comments := new(mockCommentRepo)
	bloom := new(mockBloomRepo)
	return NewService(reports, comments, bloom), reports, comments, bloom
}

func TestFileDealReport(t *testing.T) {
	svc, reports, _, bloom := newTestService()

	bloom.On("Exists", mock.Anything, int64(1)).Return(true, nil)
	reports.On("Store", mock.Anything, mock.AnythingOfType("*domain.Report")).Return(nil)

	r := &domain.Report{UserID: 7, ItemType: domain.ReportItemDeal, ItemID: 1, Reason: "expired coupon"}
	require.NoError(t, svc.File(context.Background(), r))
	assert.False(t, r.CreatedAt.IsZero())
}

func TestFileCommentReport(t *testing.T) {
	svc, reports, comments, _ := newTestService()

	comments.On("GetByID", mock.Anything, int64(10)).Return(&domain.Comment{ID: 10}, nil)
	reports.On("Store", mock.Anything, mock.AnythingOfType("*domain.Report")).Return(nil)

	r := &domain.Report{UserID: 7, ItemType: domain.ReportItemComment, ItemID: 10, Reason: "spam"}
	require.NoError(t, svc.File(context.Background(), r))
}

func TestFileRejections(t *testing.T) {
	t.Run("missing reporter", func(t *testing.T) {
		svc, _, _, _ := newTestService()
		err := svc.File(context.Background(), &domain.Report{ItemType: domain.ReportItemDeal, ItemID: 1, Reason: "spam"})
		assert.ErrorIs(t, err, domain.ErrBadParamInput)
	})

	t.Run("missing reason", func(t *testing.T) {
		svc, _, _, _ := newTestService()
		err := svc.File(context.Background(), &domain.Report{UserID: 7, ItemType: domain.ReportItemDeal, ItemID: 1})
		assert.ErrorIs(t, err, domain.ErrBadParamInput)
	})

	t.Run("unknown item type", func(t *testing.T) {
		svc, _, _, _ := newTestService()
		err := svc.File(context.Background(), &domain.Report{UserID: 7, ItemType: "user", ItemID: 1, Reason: "spam"})
		assert.ErrorIs(t, err, domain.ErrBadParamInput)
	})

	t.Run("unknown deal", func(t *testing.T) {
		svc, reports, _, bloom := newTestService()
		bloom.On("Exists", mock.Anything, int64(404)).Return(false, nil)
		err := svc.File(context.Background(), &domain.Report{UserID: 7, ItemType: domain.ReportItemDeal, ItemID: 404, Reason: "spam"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
		reports.AssertNotCalled(t, "Store")
	})

	t.Run("unknown comment", func(t *testing.T) {
		svc, reports, comments, _ := newTestService()
		comments.On("GetByID", mock.Anything, int64(99)).Return(nil, domain.ErrNotFound)
		err := svc.File(context.Background(), &domain.Report{UserID: 7, ItemType: domain.ReportItemComment, ItemID: 99, Reason: "spam"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
		reports.AssertNotCalled(t, "Store")
	})
}

func TestFileDuplicateSurfacesConflict(t *testing.T) {
	svc, reports, _, bloom := newTestService()

	bloom.On("Exists", mock.Anything, int64(1)).Return(true, nil)
	reports.On("Store", mock.Anything, mock.AnythingOfType("*domain.Report")).Return(domain.ErrConflict)

	r := &domain.Report{UserID: 7, ItemType: domain.ReportItemDeal, ItemID: 1, Reason: "spam"}
	assert.ErrorIs(t, svc.File(context.Background(), r), domain.ErrConflict)
}
