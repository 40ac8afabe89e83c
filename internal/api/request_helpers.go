package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/store"
)

// decodeAndValidate decodes the body into req and validates it. On failure
// it writes a 400 response and returns false. An empty body decodes as an
// empty object, so clients get the field-level messages.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := shared.DecodeJSON(w, r, req); err != nil && !errors.Is(err, shared.ErrEmptyBody) {
		if details := decodeErrorDetails(err); details != nil {
			respondValidationErrors(w, r, details)
			return false
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}

	if details := validateRequest(req); details != nil {
		respondValidationErrors(w, r, details)
		return false
	}
	return true
}

// requireUserID extracts the authenticated user ID, writing a 401 if absent.
func requireUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return uuid.Nil, false
	}
	return userID, true
}

// taskIDParam parses the {id} path parameter. A value that is not a UUID
// cannot name an existing task, so it is reported as store.ErrTaskNotFound.
func taskIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, store.ErrTaskNotFound
	}
	return id, nil
}

// parseTaskFilter reads status, offset and limit from the query string.
func parseTaskFilter(r *http.Request) (store.TaskFilter, []shared.FieldError) {
	q := r.URL.Query()
	filter := store.TaskFilter{Offset: 0, Limit: store.DefaultLimit}
	var details []shared.FieldError

	if raw := q.Get("status"); raw != "" {
		status := domain.TaskStatus(raw)
		if domain.IsValidTaskStatus(status) {
			filter.Status = &status
		} else {
			details = append(details, shared.FieldError{Field: "status", Message: invalidStatusMessage})
		}
	}

	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			details = append(details, shared.FieldError{Field: "offset", Message: "Offset must be an integer"})
		case n < 0:
			details = append(details, shared.FieldError{Field: "offset", Message: "Offset must not be negative"})
		default:
			filter.Offset = n
		}
	}

	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			details = append(details, shared.FieldError{Field: "limit", Message: "Limit must be an integer"})
		case n < 1:
			details = append(details, shared.FieldError{Field: "limit", Message: "Limit must be at least 1"})
		case n > store.MaxLimit:
			filter.Limit = store.MaxLimit
		default:
			filter.Limit = n
		}
	}

	return filter, details
}
