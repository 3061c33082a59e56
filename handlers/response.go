package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"bharatparcel/apperrors"
	"bharatparcel/logger"
	"bharatparcel/models"
)

// ApiResponse is the envelope every JSON endpoint answers with.
type ApiResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Code    string         `json:"code,omitempty"`
	Data    any            `json:"data,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, resp ApiResponse) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(resp)
}

// responder writes envelopes and logs write failures and server errors.
type responder struct {
	log *logger.Logger
}

func (h responder) ok(w http.ResponseWriter, r *http.Request, status int, message string, data any) {
	if err := writeJSON(w, status, ApiResponse{Success: true, Message: message, Data: data}); err != nil {
		h.log.Error("failed to write response", "request_id", RequestID(r.Context()), "path", r.URL.Path, "error", err)
	}
}

func (h responder) fail(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperrors.AsAppError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		h.log.Error("request failed",
			"request_id", RequestID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
	resp := ApiResponse{
		Success: false,
		Message: appErr.Message,
		Code:    appErr.Code,
		Details: appErr.Details,
	}
	if writeErr := writeJSON(w, appErr.StatusCode(), resp); writeErr != nil {
		h.log.Error("failed to write error response", "request_id", RequestID(r.Context()), "error", writeErr)
	}
}

// decode reads a JSON body into v; a malformed body is a 400.
func (h responder) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.fail(w, r, apperrors.InvalidInput("Invalid request payload: "+err.Error()))
		return false
	}
	return true
}

// dateWindow is the date filter accepted by report and listing endpoints.
// endDate is an older spelling of toDate.
type dateWindow struct {
	FromDate string `json:"fromDate"`
	ToDate   string `json:"toDate"`
	EndDate  string `json:"endDate"`
}

func (d dateWindow) to() string {
	if d.ToDate != "" {
		return d.ToDate
	}
	return d.EndDate
}

// Range parses both bounds and widens them to whole days. Missing bounds stay open.
func (d dateWindow) Range() (models.DateRange, error) {
	from, err := parseDate(d.FromDate)
	if err != nil {
		return models.DateRange{}, err
	}
	to, err := parseDate(d.to())
	if err != nil {
		return models.DateRange{}, err
	}
	return models.DayRange(from, to), nil
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "02-01-2006"}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperrors.InvalidInput("Invalid date format: " + s)
}
