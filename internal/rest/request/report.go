package request

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type Report struct {
	Reason string `json:"reason" binding:"required,reportreason"`
}

// RegisterValidations hooks custom rules into gin's validator engine.
// Call once during router setup.
func RegisterValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("reportreason", validReportReason)
	}
}

// validReportReason requires a reason of 3 to 200 characters of actual
// content, not just whitespace.
func validReportReason(fl validator.FieldLevel) bool {
	reason := strings.TrimSpace(fl.Field().String())
	return len(reason) >= 3 && len(reason) <= 200
}
