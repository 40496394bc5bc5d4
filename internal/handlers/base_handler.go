package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/school-directory/internal/services"
	"github.com/SAP-F-2025/school-directory/internal/utils"
	"github.com/SAP-F-2025/school-directory/internal/validator"
)

const (
	MsgInvalidRequestBody = "Invalid request body"
	MsgRequestTimeout     = "Request timed out"
)

// ErrorResponse is the body of every non-2xx JSON response
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs an incoming request with the request scoped logger
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.GetLogger(c, h.logger).Info(msg, args...)
}

// LogError logs a failure with the request scoped logger
func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	utils.GetLogger(c, h.logger).Error(msg, append(args, "error", err)...)
}

// handleServiceError maps service errors to responses. storeMessage is the
// generic text shown when the store failed; the cause is only logged.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error, storeMessage string) {
	var policyErr *validator.PolicyError
	switch {
	case errors.As(err, &policyErr):
		resp := ErrorResponse{Error: policyErr.Message}
		if errors.Is(policyErr, validator.ErrMissingField) && len(policyErr.Fields) > 0 {
			resp.Details = gin.H{"missing": policyErr.Fields.Fields()}
		}
		c.JSON(http.StatusBadRequest, resp)

	case errors.Is(err, services.ErrRequestTimeout):
		utils.GetLogger(c, h.logger).Warn("Request timed out", "error", err)
		c.JSON(http.StatusGatewayTimeout, ErrorResponse{Error: MsgRequestTimeout})

	default:
		h.LogError(c, err, storeMessage)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: storeMessage})
	}
}
