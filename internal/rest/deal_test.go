package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dealhive/dealhive/domain"
	"github.com/dealhive/dealhive/internal/rest/response"
	"github.com/dealhive/dealhive/internal/session"
)

func fakeDeals(n int) []domain.Deal {
	deals := make([]domain.Deal, n)
	created := time.Now()
	for i := range deals {
		deals[i] = domain.Deal{
			ID:          int64(i + 1),
			Title:       faker.Sentence(),
			Description: faker.Paragraph(),
			Price:       fmt.Sprintf("%d.99", 10+i),
			Temperature: "50",
			CreatedAt:   created.Add(-time.Duration(i) * time.Hour),
			User:        &domain.User{ID: int64(i + 100), Name: faker.Name()},
		}
	}
	return deals
}

func newDealRouter(svc *mockDealUsecase, commentSvc *mockCommentUsecase) (*gin.Engine, *session.Registry) {
	gin.SetMode(gin.TestMode)
	registry := session.NewRegistry(commentSvc, time.Minute)
	h := NewDealHandler(svc, registry)

	r := gin.New()
	r.GET("/deals", h.FetchDeals)
	r.GET("/deals/:id", h.GetByID)
	r.POST("/deals/:id/vote", h.Vote)
	return r, registry
}

func TestFetchDeals(t *testing.T) {
	svc := new(mockDealUsecase)
	router, _ := newDealRouter(svc, new(mockCommentUsecase))

	svc.On("Fetch", mock.Anything, "", int64(10)).Return(fakeDeals(2), "next-cursor", nil)

	req := httptest.NewRequest(http.MethodGet, "/deals", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "next-cursor", rec.Header().Get("X-cursor"))

	var res response.DealList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Deals, 2)
	assert.NotEmpty(t, res.Deals[0].Title)
	assert.NotEmpty(t, res.Deals[0].PostedBy)
}

func TestFetchDealsClampsPageSize(t *testing.T) {
	svc := new(mockDealUsecase)
	router, _ := newDealRouter(svc, new(mockCommentUsecase))

	// Out-of-range num falls back to the default page size
	svc.On("Fetch", mock.Anything, "", int64(DefaultPageNum)).Return(fakeDeals(1), "", nil)

	req := httptest.NewRequest(http.MethodGet, "/deals?num=500", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	svc.AssertCalled(t, "Fetch", mock.Anything, "", int64(DefaultPageNum))
}

func TestGetByIDOpensSession(t *testing.T) {
	svc := new(mockDealUsecase)
	router, registry := newDealRouter(svc, new(mockCommentUsecase))

	svc.On("GetByID", mock.Anything, int64(1)).Return(testDeal(), nil)

	req := httptest.NewRequest(http.MethodGet, "/deals/1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	sid := rec.Header().Get(HeaderSession)
	require.NotEmpty(t, sid)
	assert.NotNil(t, registry.Lookup(sid, 1))

	var res response.DealDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotNil(t, res.Deal)
	require.Len(t, res.Deal.Comments, 1)
	assert.Equal(t, "Great deal!", res.Deal.Comments[0].Text)
}

func TestGetByIDEchoesExistingSession(t *testing.T) {
	svc := new(mockDealUsecase)
	router, registry := newDealRouter(svc, new(mockCommentUsecase))

	svc.On("GetByID", mock.Anything, int64(1)).Return(testDeal(), nil)

	first := httptest.NewRequest(http.MethodGet, "/deals/1", nil)
	firstRec := httptest.NewRecorder()
	router.ServeHTTP(firstRec, first)
	sid := firstRec.Header().Get(HeaderSession)
	require.NotEmpty(t, sid)

	second := httptest.NewRequest(http.MethodGet, "/deals/1", nil)
	second.Header.Set(HeaderSession, sid)
	secondRec := httptest.NewRecorder()
	router.ServeHTTP(secondRec, second)

	assert.Equal(t, sid, secondRec.Header().Get(HeaderSession))
	assert.Equal(t, 1, registry.Len())
}

func TestGetByIDNotFound(t *testing.T) {
	svc := new(mockDealUsecase)
	router, _ := newDealRouter(svc, new(mockCommentUsecase))

	svc.On("GetByID", mock.Anything, int64(404)).Return(domain.Deal{}, domain.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/deals/404", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVoteDirections(t *testing.T) {
	t.Run("hot", func(t *testing.T) {
		svc := new(mockDealUsecase)
		router, _ := newDealRouter(svc, new(mockCommentUsecase))
		svc.On("Vote", mock.Anything, int64(1), int64(1)).Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/deals/1/vote?dir=hot", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("cold", func(t *testing.T) {
		svc := new(mockDealUsecase)
		router, _ := newDealRouter(svc, new(mockCommentUsecase))
		svc.On("Vote", mock.Anything, int64(1), int64(-1)).Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/deals/1/vote?dir=cold", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("invalid direction", func(t *testing.T) {
		svc := new(mockDealUsecase)
		router, _ := newDealRouter(svc, new(mockCommentUsecase))

		req := httptest.NewRequest(http.MethodPost, "/deals/1/vote?dir=sideways", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "Vote")
	})
}
