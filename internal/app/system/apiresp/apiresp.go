// Package apiresp writes the JSON envelopes every API endpoint returns.
//
// Success bodies look like
//
//	{ "success": true, "message": "...", "data": ..., "pagination": {...} }
//
// and failures like
//
//	{ "success": false, "message": "...", "error": "...", "errors": [...] }
//
// Handlers translate their own errors into one of the helpers below; there
// is no central error middleware.
package apiresp

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/ekaahub/internal/app/system/paging"
)

// Body is the response envelope.
type Body struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message,omitempty"`
	Data       any                `json:"data,omitempty"`
	Pagination *paging.Pagination `json:"pagination,omitempty"`
	Error      string             `json:"error,omitempty"`
	Errors     []FieldError       `json:"errors,omitempty"`
}

// FieldError is one itemized validation failure.
type FieldError struct {
	Field string `json:"field,omitempty"`
	Msg   string `json:"msg"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes a 200 success envelope around data.
func OK(w http.ResponseWriter, message string, data any) {
	JSON(w, http.StatusOK, Body{Success: true, Message: message, Data: data})
}

// Created writes a 201 success envelope around data.
func Created(w http.ResponseWriter, message string, data any) {
	JSON(w, http.StatusCreated, Body{Success: true, Message: message, Data: data})
}

// Page writes a 200 list envelope. items should be a non-nil slice so an
// empty page serializes as [].
func Page(w http.ResponseWriter, message string, items any, pg paging.Pagination) {
	JSON(w, http.StatusOK, Body{Success: true, Message: message, Data: items, Pagination: &pg})
}

// Fail writes a failure envelope with the given status.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Body{Success: false, Message: message})
}

// BadRequest writes 400.
func BadRequest(w http.ResponseWriter, message string) {
	Fail(w, http.StatusBadRequest, message)
}

// BadID writes 400 for an identifier that is not a valid ObjectID.
func BadID(w http.ResponseWriter, what string) {
	Fail(w, http.StatusBadRequest, "Invalid "+what+" ID format")
}

// NotFound writes 404.
func NotFound(w http.ResponseWriter, message string) {
	Fail(w, http.StatusNotFound, message)
}

// Duplicate writes 400 for a uniqueness violation.
func Duplicate(w http.ResponseWriter, message string) {
	Fail(w, http.StatusBadRequest, message)
}

// Unauthorized writes 401.
func Unauthorized(w http.ResponseWriter, message string) {
	Fail(w, http.StatusUnauthorized, message)
}

// Forbidden writes 403.
func Forbidden(w http.ResponseWriter, message string) {
	Fail(w, http.StatusForbidden, message)
}

// ValidationFailed writes 422 with the itemized failures.
func ValidationFailed(w http.ResponseWriter, errs []FieldError) {
	JSON(w, http.StatusUnprocessableEntity, Body{
		Success: false,
		Message: "Validation failed",
		Errors:  errs,
	})
}

// ServerError writes 500. detail is included only when showDetail is set
// (development environments).
func ServerError(w http.ResponseWriter, message string, detail error, showDetail bool) {
	b := Body{Success: false, Message: message}
	if showDetail && detail != nil {
		b.Error = detail.Error()
	}
	JSON(w, http.StatusInternalServerError, b)
}
