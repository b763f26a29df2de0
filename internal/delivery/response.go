package delivery

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"catalog_service/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Detail string `json:"detail"`
}

func mapErrorToStatus(err error) int {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// detailFor picks the client-facing message. Sentinel errors wrapped as
// "<sentinel>: <message>" expose the message; server errors expose nothing.
func detailFor(err error, status int) string {
	switch status {
	case http.StatusNotFound:
		return "Not found."
	case http.StatusConflict:
		return err.Error()
	case http.StatusForbidden:
		return suffix(err, domain.ErrPermissionDenied, "You do not have permission to perform this action.")
	case http.StatusUnauthorized:
		return suffix(err, domain.ErrUnauthenticated, "Authentication credentials were not provided.")
	}
	return "A server error occurred."
}

func suffix(err, sentinel error, fallback string) string {
	if rest, ok := strings.CutPrefix(err.Error(), sentinel.Error()+": "); ok && rest != "" {
		return rest
	}
	return fallback
}

// respondError writes err as JSON. Validation errors become a field map,
// everything else a {"detail": ...} body.
func respondError(c *gin.Context, log *logrus.Logger, op string, err error) {
	status := mapErrorToStatus(err)

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		log.Warnf("Handler: %s rejected: %v", op, err)
		c.AbortWithStatusJSON(status, verr.Fields)
		return
	}
	if status >= http.StatusInternalServerError {
		log.Errorf("Handler: %s failed: %v", op, err)
	} else {
		log.Warnf("Handler: %s failed: %v", op, err)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Detail: detailFor(err, status)})
}

// bindError turns a JSON decoding failure into a client error.
func bindError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return domain.NewValidationError(typeErr.Field, "Incorrect type. Expected "+typeErr.Type.String()+".")
	}
	return domain.NewValidationError("non_field_errors", "JSON parse error - "+err.Error())
}

// parseID reads the :id path parameter. Non-numeric ids match nothing.
func parseID(c *gin.Context, log *logrus.Logger) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		log.Warnf("Handler: Invalid ID parameter: %s", idStr)
		c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{Detail: "Not found."})
		return 0, false
	}
	return id, true
}
