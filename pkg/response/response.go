package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/room-booking-api/pkg/errors"
)

const (
	StatusSuccess = "SUCCESS"
	StatusError   = "ERROR"
)

// Envelope represents the common response contract.
type Envelope struct {
	Status string                 `json:"status"`
	Data   interface{}            `json:"data,omitempty"`
	Error  *appErrors.Error       `json:"error,omitempty"`
	Meta   map[string]interface{} `json:"meta,omitempty"`
}

// JSON sends a success response with optional metadata.
func JSON(c *gin.Context, status int, data interface{}, meta ...map[string]interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	envelope := Envelope{Status: StatusSuccess, Data: data}
	if len(meta) > 0 && len(meta[0]) > 0 {
		envelope.Meta = meta[0]
	}
	c.JSON(status, envelope)
}

// OK responds with HTTP 200.
func OK(c *gin.Context, data interface{}, meta ...map[string]interface{}) {
	JSON(c, http.StatusOK, data, meta...)
}

// Error sends an error response converting the error to the common structure.
// The request path is echoed so clients can correlate failures.
func Error(c *gin.Context, err error) {
	appErr := appErrors.Clone(appErrors.FromError(err), "")
	if c.Request != nil && c.Request.URL != nil {
		appErr.Path = c.Request.URL.Path
	}
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, Envelope{Status: StatusError, Error: appErr})
}

// File streams a rendered document as an attachment.
func File(c *gin.Context, filename, contentType string, payload []byte) {
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, contentType, payload)
}
