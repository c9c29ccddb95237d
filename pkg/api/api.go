// Package api writes the JSON envelopes returned by every HTTP endpoint
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// Response represents the standard API response format
type Response struct {
	Success   bool          `json:"success"`
	RequestID string        `json:"request_id,omitempty"`
	Message   string        `json:"message,omitempty"`
	Data      any           `json:"data,omitempty"`
	Error     string        `json:"error,omitempty"`
	Code      string        `json:"code,omitempty"`
	Details   []ErrorDetail `json:"details,omitempty"`
	Meta      *Meta         `json:"meta,omitempty"`
}

// Meta contains metadata for API responses
type Meta struct {
	Count      int         `json:"count"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination contains pagination information
type Pagination struct {
	Offset      int  `json:"offset"`
	Limit       int  `json:"limit"`
	Page        int  `json:"page"`
	Total       int  `json:"total"`
	TotalPages  int  `json:"total_pages"`
	HasNextPage bool `json:"has_next_page"`
	HasPrevPage bool `json:"has_prev_page"`
}

// ErrorDetail contains detailed error information for specific fields
type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Api interface defines methods for standard API responses
type Api interface {
	Success(ctx context.Context, w http.ResponseWriter, message string, data any)
	SuccessWithMeta(ctx context.Context, w http.ResponseWriter, message string, data any, meta *Meta)
	Created(ctx context.Context, w http.ResponseWriter, message string, data any)
	Error(ctx context.Context, w http.ResponseWriter, statusCode int, code, errMsg, message string)
	BadRequest(ctx context.Context, w http.ResponseWriter, errMsg string)
	NotFound(ctx context.Context, w http.ResponseWriter, errMsg string)
	Conflict(ctx context.Context, w http.ResponseWriter, errMsg, message string)
	InternalServerError(ctx context.Context, w http.ResponseWriter, errMsg string)
	ValidationError(ctx context.Context, w http.ResponseWriter, details []ErrorDetail)
	// JSON writes an arbitrary payload, for endpoints with their own contract
	JSON(ctx context.Context, w http.ResponseWriter, statusCode int, payload any)
}

type api struct{}

// New creates a new instance of the API response handler
func New() Api {
	return &api{}
}

// getRequestID safely extracts the request ID from context
func (a *api) getRequestID(ctx context.Context) string {
	return middleware.GetReqID(ctx)
}

func (a *api) write(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	// the status line is already out, nothing useful to do with an encode error
	_ = json.NewEncoder(w).Encode(payload)
}

// Success sends a 200 response with an optional message and data
func (a *api) Success(ctx context.Context, w http.ResponseWriter, message string, data any) {
	a.SuccessWithMeta(ctx, w, message, data, nil)
}

// SuccessWithMeta sends a 200 response with data and metadata
func (a *api) SuccessWithMeta(ctx context.Context, w http.ResponseWriter, message string, data any, meta *Meta) {
	a.write(w, http.StatusOK, Response{
		Success:   true,
		RequestID: a.getRequestID(ctx),
		Message:   message,
		Data:      data,
		Meta:      meta,
	})
}

// Created sends a 201 Created response with data
func (a *api) Created(ctx context.Context, w http.ResponseWriter, message string, data any) {
	a.write(w, http.StatusCreated, Response{
		Success:   true,
		RequestID: a.getRequestID(ctx),
		Message:   message,
		Data:      data,
	})
}

// Error sends a failure envelope with the given status
func (a *api) Error(ctx context.Context, w http.ResponseWriter, statusCode int, code, errMsg, message string) {
	a.write(w, statusCode, Response{
		Success:   false,
		RequestID: a.getRequestID(ctx),
		Code:      code,
		Error:     errMsg,
		Message:   message,
	})
}

// BadRequest sends a 400 Bad Request response
func (a *api) BadRequest(ctx context.Context, w http.ResponseWriter, errMsg string) {
	a.Error(ctx, w, http.StatusBadRequest, "BAD_REQUEST", errMsg, "")
}

// NotFound sends a 404 Not Found response
func (a *api) NotFound(ctx context.Context, w http.ResponseWriter, errMsg string) {
	a.Error(ctx, w, http.StatusNotFound, "NOT_FOUND", errMsg, "")
}

// Conflict sends a 409 Conflict response
func (a *api) Conflict(ctx context.Context, w http.ResponseWriter, errMsg, message string) {
	a.Error(ctx, w, http.StatusConflict, "CONFLICT", errMsg, message)
}

// InternalServerError sends a 500 Internal Server Error response
func (a *api) InternalServerError(ctx context.Context, w http.ResponseWriter, errMsg string) {
	a.Error(ctx, w, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", errMsg, "")
}

// ValidationError sends a 422 Unprocessable Entity response with validation details
func (a *api) ValidationError(ctx context.Context, w http.ResponseWriter, details []ErrorDetail) {
	a.write(w, http.StatusUnprocessableEntity, Response{
		Success:   false,
		RequestID: a.getRequestID(ctx),
		Code:      "VALIDATION_ERROR",
		Error:     "Validation failed",
		Details:   details,
	})
}

// JSON writes payload as-is with the given status
func (a *api) JSON(_ context.Context, w http.ResponseWriter, statusCode int, payload any) {
	a.write(w, statusCode, payload)
}

// NewPagination computes page metadata for an offset/limit window over total rows
func NewPagination(offset, limit, total int) *Pagination {
	if limit <= 0 {
		limit = 10
	}
	if total < 0 {
		total = 0
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}

	page := 1
	if total > 0 && offset < total {
		page = offset/limit + 1
	} else if total > 0 && offset >= total {
		page = totalPages
	}

	return &Pagination{
		Offset:      offset,
		Limit:       limit,
		Page:        page,
		Total:       total,
		TotalPages:  totalPages,
		HasNextPage: total > 0 && offset+limit < total,
		HasPrevPage: total > 0 && offset > 0,
	}
}
