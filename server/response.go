package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/seqkit/errors"
)

// DataResponse is the success envelope.
type DataResponse struct {
	Data any   `json:"data"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta describes the page a list response holds.
type Meta struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
	Total  int `json:"total"`
}

// RespondOK sends 200 with data.
func RespondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, DataResponse{Data: data})
}

// RespondOKWithMeta sends 200 with data and paging metadata.
func RespondOKWithMeta(c *gin.Context, data any, meta *Meta) {
	c.JSON(http.StatusOK, DataResponse{Data: data, Meta: meta})
}

// RespondWithError derives status and body from an AppError in err's chain.
// Anything else becomes a 500 without leaking its message.
func RespondWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	if appErr, ok := apperrors.AsAppError(err); ok {
		c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, apperrors.Internal(err).ToResponse())
}

func errNoRoute(c *gin.Context) error {
	return apperrors.NotFound("route", c.Request.URL.Path)
}

func errNoMethod(c *gin.Context) error {
	return apperrors.New(apperrors.ErrCodeMethodNotAllowed,
		c.Request.Method+" is not allowed on "+c.Request.URL.Path, http.StatusMethodNotAllowed)
}
