package http

import (
	"encoding/json"
	"net/http"

	apperrors "eventease/pkg/errors"
)

// Envelope is the response shape every endpoint writes. Success is
// reported explicitly in the body in addition to the HTTP status code.
type Envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Data    any      `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
	Warning string   `json:"warning,omitempty"`
}

// Pagination describes a 1-indexed page window.
type Pagination struct {
	Current int   `json:"current"`
	Pages   int64 `json:"pages"`
	Total   int64 `json:"total"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, body any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(body)
}

func WriteSuccess(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data})
}

func WriteSuccessMessage(w http.ResponseWriter, message string) error {
	return WriteJSON(w, http.StatusOK, Envelope{Success: true, Message: message})
}

func WriteCreated(w http.ResponseWriter, message string, data any) error {
	return WriteJSON(w, http.StatusCreated, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// WriteCreatedWithWarning reports a created resource together with a
// non-fatal warning, e.g. a notification sink failure.
func WriteCreatedWithWarning(w http.ResponseWriter, message string, data any, warning string) error {
	return WriteJSON(w, http.StatusCreated, Envelope{
		Success: true,
		Message: message,
		Data:    data,
		Warning: warning,
	})
}

// WritePaginated wraps a page of items with its pagination window.
func WritePaginated(w http.ResponseWriter, items any, total int64, page, limit int) error {
	pages := int64(0)
	if limit > 0 {
		pages = (total + int64(limit) - 1) / int64(limit)
	}
	return WriteJSON(w, http.StatusOK, Envelope{
		Success: true,
		Data: map[string]any{
			"items": items,
			"pagination": Pagination{
				Current: page,
				Pages:   pages,
				Total:   total,
			},
		},
	})
}

func WriteError(w http.ResponseWriter, err error) error {
	appErr := apperrors.AsAppError(err)

	env := Envelope{
		Success: false,
		Message: appErr.Message,
	}
	if appErr.Details != nil {
		if list, ok := appErr.Details["errors"].([]string); ok {
			env.Errors = list
		}
	}

	return WriteJSON(w, appErr.StatusCode(), env)
}
