package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/domain"
	authsvc "storefront/internal/service/auth"
	checkoutsvc "storefront/internal/service/checkout"
)

type errorBody struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": errorBody{Code: code, Message: message}})
}

// writeError maps service errors to HTTP responses. Unknown errors are logged
// and hidden behind a 500.
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	var (
		ve *domain.ValidationError
		re *domain.RemoteError
	)
	switch {
	case errors.As(err, &ve):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": errorBody{
			Code: ve.Code, Message: ve.Message, Redirect: ve.Redirect,
		}})
	case errors.Is(err, domain.ErrNotFound):
		abortWithError(c, http.StatusNotFound, "not_found", "Not found")
	case errors.Is(err, checkoutsvc.ErrSubmissionInFlight):
		abortWithError(c, http.StatusConflict, "in_flight", "Your order is already being placed")
	case errors.Is(err, authsvc.ErrInvalidCredentials):
		abortWithError(c, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
	case errors.Is(err, authsvc.ErrInvalidToken):
		abortWithError(c, http.StatusUnauthorized, "invalid_token", "Please login again")
	case errors.As(err, &re):
		logger.Warn("remote failure", zap.String("op", re.Op), zap.Error(re.Err), zap.String("path", c.FullPath()))
		abortWithError(c, http.StatusBadGateway, "remote_unavailable", "Something went wrong, please try again")
	default:
		logger.Error("request failed", zap.Error(err), zap.String("path", c.FullPath()))
		abortWithError(c, http.StatusInternalServerError, "internal", "Internal error")
	}
}
