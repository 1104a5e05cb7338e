package handler

import (
	"errors"
	"net/http"

	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// respondError maps service sentinel errors to HTTP status codes. Anything
// unrecognized is treated as a bad request so validation messages reach the
// client verbatim.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDocumentNotFound), errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
	case errors.Is(err, service.ErrDocumentLocked), errors.Is(err, service.ErrDependentRecordsExist):
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
	default:
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
	}
}
