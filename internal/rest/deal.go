package rest

import (
	"net/http"
	"strconv"

	"github.com/dealhive/dealhive/domain"
	"github.com/dealhive/dealhive/internal/rest/middleware"
	"github.com/dealhive/dealhive/internal/rest/response"
	"github.com/dealhive/dealhive/internal/session"
	"github.com/dealhive/dealhive/internal/viewmodel"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	DefaultPageNum = 10
	PageMinNum     = 5
	PageMaxNum     = 30

	// HeaderSession carries the viewer's comment session id.
	HeaderSession = "X-Session-Id"
)

// DealHandler represent the httphandler for deals
type DealHandler struct {
	Service  domain.DealUsecase
	Registry *session.Registry
}

func NewDealHandler(svc domain.DealUsecase, registry *session.Registry) *DealHandler {
	return &DealHandler{
		Service:  svc,
		Registry: registry,
	}
}

// FetchDeals will fetch the deal feed based on given params
func (h *DealHandler) FetchDeals(c *gin.Context) {
	numS := c.Query("num")
	num, err := strconv.Atoi(numS)
	if err != nil || num < PageMinNum || num > PageMaxNum {
		num = DefaultPageNum
	}

	cursor := c.Query("cursor")
	ctx := c.Request.Context()

	deals, nextCursor, err := h.Service.Fetch(ctx, cursor, int64(num))
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	res := response.DealList{
		Deals: make([]*viewmodel.DealViewModel, len(deals)),
	}
	for i := range deals {
		res.Deals[i] = viewmodel.MapDeal(&deals[i])
	}

	c.Header(`X-cursor`, nextCursor)
	c.JSON(http.StatusOK, res)
}

// GetByID returns one deal and opens (or refreshes) the viewer's comment
// session for it. The session's visible list is the comment truth from here
// on; the session id is echoed in the X-Session-Id header.
func (h *DealHandler) GetByID(c *gin.Context) {
	idP, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ResponseError{Message: domain.ErrNotFound.Error()})
		return
	}
	id := int64(idP)
	ctx := c.Request.Context()

	deal, err := h.Service.GetByID(ctx, id)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	vm := viewmodel.MapDeal(&deal)
	sess := h.Registry.Acquire(c.GetHeader(HeaderSession), id, vm.Comments)
	vm.Comments = sess.Flow.Manager().Comments()

	c.Header(HeaderSession, sess.ID)
	c.JSON(http.StatusOK, response.DealDetail{
		Deal:    vm,
		Notices: sess.DrainNotices(),
	})
}

// Vote applies a hot/cold vote to a deal
func (h *DealHandler) Vote(c *gin.Context) {
	idP, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ResponseError{Message: domain.ErrNotFound.Error()})
		return
	}
	id := int64(idP)

	var delta int64
	switch c.Query("dir") {
	case "hot":
		delta = int64(domain.VoteHot)
	case "cold":
		delta = int64(domain.VoteCold)
	default:
		c.JSON(http.StatusBadRequest, ResponseError{Message: domain.ErrBadParamInput.Error()})
		return
	}

	if err := h.Service.Vote(c.Request.Context(), id, delta); err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Vote recorded"})
}

// currentUser pulls the identity resolved by the auth middleware.
func currentUser(c *gin.Context) (*domain.User, bool) {
	val, exists := c.Get(middleware.CtxUserKey)
	if !exists {
		return nil, false
	}
	user, ok := val.(*domain.User)
	if !ok || user == nil {
		logrus.Error("invalid user identity in request context")
		return nil, false
	}
	return user, true
}
