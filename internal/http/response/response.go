package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/linguaspark/linguaspark-backend/internal/platform/apierr"
)

const internalMessage = "Something went wrong. Please try again later."

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	ErrorID string `json:"errorId,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondAPIError writes err using its taxonomy code. Errors without one are
// reported as UNKNOWN with a generic message; the cause is recorded on the
// gin context for the request logger and correlated through the error id.
func RespondAPIError(c *gin.Context, err error) {
	ae := apierr.As(err)
	if ae == nil {
		ae = apierr.Internal(nil)
	}
	status := ae.Status
	if status == 0 {
		status = apierr.StatusForCode(ae.Code)
	}
	body := APIError{Message: ae.Error(), Code: ae.Code, ErrorID: ae.ErrorID}
	if status >= http.StatusInternalServerError {
		if body.ErrorID == "" {
			body.ErrorID = uuid.NewString()
		}
		if ae.Code == apierr.CodeUnknown {
			body.Message = internalMessage
		}
		_ = c.Error(err)
		c.Set("error_id", body.ErrorID)
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: body})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
