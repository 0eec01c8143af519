package httperr

import (
	"math"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// Rejection is the detail body of a business-rule refusal the caller can act on.
type Rejection struct {
	Outcome           string `json:"outcome"`
	RetryAfterSeconds int64  `json:"retry_after_seconds,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(&gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

// AbortWithRejection reports outcome in the detail body. A positive wait is rounded up
// to whole seconds and also sent as Retry-After.
func AbortWithRejection(c *gin.Context, status int, err error, msg, outcome string, wait time.Duration) {
	detail := Rejection{Outcome: outcome}
	if wait > 0 {
		detail.RetryAfterSeconds = int64(math.Ceil(wait.Seconds()))
		c.Header("Retry-After", strconv.FormatInt(detail.RetryAfterSeconds, 10))
	}
	AbortWithError(c, status, err, msg, detail)
}
