package rest

import (
	"net/http"
	"strconv"

	"github.com/dealhive/dealhive/domain"
	"github.com/dealhive/dealhive/internal/rest/request"
	"github.com/dealhive/dealhive/internal/rest/response"
	"github.com/dealhive/dealhive/internal/session"
	"github.com/dealhive/dealhive/internal/viewmodel"
	"github.com/gin-gonic/gin"
)

// CommentHandler drives the comment lifecycle over HTTP. Every mutation goes
// through the viewer's session flow, so moderation notices and the
// confirm-before-delete contract behave the same as in any other client.
type CommentHandler struct {
	Registry *session.Registry
	DealSvc  domain.DealUsecase
	Service  domain.CommentUsecase
}

func NewCommentHandler(registry *session.Registry, dealSvc domain.DealUsecase, svc domain.CommentUsecase) *CommentHandler {
	return &CommentHandler{
		Registry: registry,
		DealSvc:  dealSvc,
		Service:  svc,
	}
}

// session finds the viewer's session for the deal, seeding a fresh one from
// the current comment list when the client skipped the detail view (or the
// session was reaped).
func (h *CommentHandler) session(c *gin.Context, dealID int64) (*session.Session, error) {
	sid := c.GetHeader(HeaderSession)
	if sid != "" {
		if s := h.Registry.Lookup(sid, dealID); s != nil {
			return s, nil
		}
	}

	deal, err := h.DealSvc.GetByID(c.Request.Context(), dealID)
	if err != nil {
		return nil, err
	}
	vm := viewmodel.MapDeal(&deal)
	return h.Registry.Acquire(sid, dealID, vm.Comments), nil
}

func pathID(c *gin.Context, name string) (int64, bool) {
	idP, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusNotFound, ResponseError{Message: domain.ErrNotFound.Error()})
		return 0, false
	}
	return int64(idP), true
}

// mayTouch is the presentation-boundary ownership check: the comment's
// author or an admin. The comment service re-checks underneath and fails
// safe either way.
func mayTouch(actor *domain.User, comments []viewmodel.CommentViewModel, commentID int64) bool {
	if actor.IsAdmin() {
		return true
	}
	for _, vm := range comments {
		if vm.ID == commentID {
			return vm.User.ID == actor.ID
		}
	}
	return false
}

// CreateComment posts a new comment on a deal
func (h *CommentHandler) CreateComment(c *gin.Context) {
	dealID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req request.Comment
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	sess, err := h.session(c, dealID)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	status, err := sess.Flow.SubmitComment(c.Request.Context(), req.Text, actor)
	if err != nil {
		c.Header(HeaderSession, sess.ID)
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.Header(HeaderSession, sess.ID)
	c.JSON(http.StatusCreated, response.NewCommentMutation(status, sess))
}

// UpdateComment edits a comment through the inline-edit flow
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	dealID, ok := pathID(c, "id")
	if !ok {
		return
	}
	commentID, ok := pathID(c, "cid")
	if !ok {
		return
	}

	var req request.Comment
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	sess, err := h.session(c, dealID)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	if !mayTouch(actor, sess.Flow.Manager().Comments(), commentID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to edit this comment"})
		return
	}

	if err := sess.Flow.BeginEdit(commentID); err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	sess.Flow.UpdateEditBuffer(req.Text)

	status, err := sess.Flow.SaveEdit(c.Request.Context(), actor)
	if err != nil {
		// The edit slot spans this request only; release it so a failed save
		// does not block edits of other comments in the session.
		sess.Flow.CancelEdit()
		c.Header(HeaderSession, sess.ID)
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.Header(HeaderSession, sess.ID)
	c.JSON(http.StatusOK, response.NewCommentMutation(status, sess))
}

// DeleteComment removes a comment. Without confirm=true it only returns the
// confirmation prompt; nothing is deleted until the client confirms.
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	dealID, ok := pathID(c, "id")
	if !ok {
		return
	}
	commentID, ok := pathID(c, "cid")
	if !ok {
		return
	}

	actor, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	sess, err := h.session(c, dealID)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	if !mayTouch(actor, sess.Flow.Manager().Comments(), commentID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to delete this comment"})
		return
	}

	switch c.Query("confirm") {
	case "true":
		if _, err := sess.Flow.RequestDelete(commentID); err != nil {
			c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
			return
		}
		if err := sess.Flow.ConfirmDelete(c.Request.Context(), actor); err != nil {
			c.Header(HeaderSession, sess.ID)
			c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
			return
		}
		c.Header(HeaderSession, sess.ID)
		c.JSON(http.StatusOK, response.NewCommentMutation("", sess))

	case "false":
		sess.Flow.CancelDelete()
		c.Header(HeaderSession, sess.ID)
		c.JSON(http.StatusOK, response.NewCommentMutation("", sess))

	default:
		prompt, err := sess.Flow.RequestDelete(commentID)
		if err != nil {
			c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
			return
		}
		res := response.NewCommentMutation("", sess)
		res.Confirm = &prompt
		c.Header(HeaderSession, sess.ID)
		c.JSON(http.StatusOK, res)
	}
}

// ModerateComment approves or rejects queued content (admin only)
func (h *CommentHandler) ModerateComment(c *gin.Context) {
	commentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req request.Moderation
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.Service.Moderate(c.Request.Context(), commentID, actor, *req.Approve); err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Moderation decision applied"})
}
