package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CazadorHJT/MCAT-Prep-App/internal/platform/apierr"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/platform/logger"
)

const internalMessage = "internal server error"

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondFromError translates err through apierr. Server-side failures are
// logged with their cause and answered with a generic message.
func RespondFromError(c *gin.Context, log *logger.Logger, err error) {
	ae := apierr.From(err)
	if ae == nil {
		ae = apierr.New(http.StatusInternalServerError, "internal", nil)
	}
	if ae.Status >= http.StatusInternalServerError {
		if log != nil {
			log.Error("request failed", "path", c.FullPath(), "code", ae.Code, "error", err)
		}
		c.JSON(ae.Status, ErrorEnvelope{Error: APIError{Message: internalMessage, Code: ae.Code}})
		return
	}
	RespondError(c, ae.Status, ae.Code, ae.Err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
