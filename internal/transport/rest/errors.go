package rest

import (
	"errors"
	"net/http"
	"time"

	perrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/validation"
	"github.com/abgdnv/catalog/pkg/web"
)

// MapError converts a failure into an HTTP status and response body.
// Validation failures produce the ordered list of field errors, everything else an ErrorResponse.
func MapError(err error, path string, now time.Time) (int, any) {
	switch perrors.KindOf(err) {
	case perrors.KindValidation:
		var fieldErrors validation.Errors
		if errors.As(err, &fieldErrors) {
			return http.StatusBadRequest, fieldErrors
		}
		return http.StatusBadRequest, web.NewErrorResponse(now, http.StatusBadRequest, perrors.Message(err), path)
	case perrors.KindNotFound:
		return http.StatusNotFound, web.NewErrorResponse(now, http.StatusNotFound, perrors.Message(err), path)
	case perrors.KindExists:
		return http.StatusConflict, web.NewErrorResponse(now, http.StatusConflict, perrors.Message(err), path)
	case perrors.KindConstraint:
		return http.StatusConflict, web.NewErrorResponse(now, http.StatusConflict, err.Error(), path)
	default:
		return http.StatusInternalServerError, web.NewErrorResponse(now, http.StatusInternalServerError, err.Error(), path)
	}
}
