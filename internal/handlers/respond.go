package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/procurement/internal/errors"
	"github.com/stwalsh4118/procurement/internal/services"
)

// serviceError writes the response for an error returned by a service.
// notFound is the message used for services.ErrNotFound; failed is the
// generic message for unexpected errors.
func serviceError(c *gin.Context, err error, notFound, failed string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		apierrors.NotFound(c, notFound)
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, services.ErrInvalidReference):
		apierrors.BadRequest(c, err.Error(), nil)
	case errors.Is(err, services.ErrConflict):
		apierrors.Conflict(c, "The record was modified by another request; reload and try again")
	case errors.Is(err, services.ErrDuplicate):
		apierrors.Conflict(c, "A record with the same key already exists")
	case errors.Is(err, services.ErrRemoteFetch):
		apierrors.BadGateway(c, "The open data service could not be reached", err)
	case errors.Is(err, services.ErrImportFailed):
		apierrors.InternalServerError(c, "Importing sales data failed", err)
	default:
		apierrors.InternalServerError(c, failed, err)
	}
}

// idParam parses the :id path parameter. On failure the 400 response has
// already been written and ok is false.
func idParam(c *gin.Context) (id int64, ok bool) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		apierrors.BadRequest(c, "id must be a positive integer", map[string]interface{}{"id": raw})
		return 0, false
	}
	return id, true
}
