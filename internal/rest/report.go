package rest

import (
	"net/http"

	"github.com/dealhive/dealhive/domain"
	"github.com/dealhive/dealhive/internal/rest/request"
	"github.com/gin-gonic/gin"
)

// ReportHandler files abuse reports against deals and comments
type ReportHandler struct {
	Service domain.ReportUsecase
}

func NewReportHandler(svc domain.ReportUsecase) *ReportHandler {
	return &ReportHandler{Service: svc}
}

// ReportDeal handles POST /deals/:id/report
func (h *ReportHandler) ReportDeal(c *gin.Context) {
	h.file(c, domain.ReportItemDeal)
}

// ReportComment handles POST /comments/:id/report
func (h *ReportHandler) ReportComment(c *gin.Context) {
	h.file(c, domain.ReportItemComment)
}

func (h *ReportHandler) file(c *gin.Context, itemType string) {
	itemID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req request.Report
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	report := &domain.Report{
		UserID:   actor.ID,
		ItemType: itemType,
		ItemID:   itemID,
		Reason:   req.Reason,
	}
	if err := h.Service.File(c.Request.Context(), report); err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Report received"})
}
