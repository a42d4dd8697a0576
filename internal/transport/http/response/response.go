package response

import (
	"github.com/gin-gonic/gin"

	"lapor-fasilitas/internal/domain"
)

// Body is the JSON envelope shared by the laporan and summary endpoints:
// {success, message?, data?, error?, errors?}. Auth endpoints keep their
// own legacy shapes and bypass this package.
type Body struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

func OK(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Body{Success: true, Message: message, Data: data})
}

func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, Body{Success: false, Message: message})
}

func FailErr(c *gin.Context, status int, message string, err error) {
	c.JSON(status, Body{Success: false, Message: message, Error: err.Error()})
}

// FailValidation renders a ValidationError, including the field list when
// the summary store produced per-field messages.
func FailValidation(c *gin.Context, ve *domain.ValidationError) {
	if len(ve.Fields) > 0 {
		c.JSON(400, Body{Success: false, Message: ve.Message, Errors: ve.Fields})
		return
	}
	c.JSON(400, Body{Success: false, Message: ve.Message})
}
