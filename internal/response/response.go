// Package response provides shared JSON response helpers for HTTP handlers.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/filedrop/gateway/internal/errs"
)

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Error string `json:"error" example:"invalid credentials"`
}

// JSON writes a JSON-encoded payload with the given HTTP status code.
func JSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// OK writes a 200 response with data as the body.
func OK(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, data)
}

// Created writes a 201 response with data as the body.
func Created(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusCreated, data)
}

// Error writes an error response with the given status and message.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorBody{Error: message})
}

// BadRequest writes a 400 response.
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message)
}

// Unauthorized writes a 401 response.
func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, message)
}

// InternalError writes a 500 response with a generic message.
func InternalError(w http.ResponseWriter) {
	Error(w, http.StatusInternalServerError, "internal server error")
}

// HandleError maps an error kind to a status. Only the caller-safe message
// is written; causes stay in the logs.
func HandleError(w http.ResponseWriter, err error) {
	msg := errs.MessageOf(err)

	switch errs.KindOf(err) {
	case errs.KindInvalidInput:
		BadRequest(w, msg)
	case errs.KindUnauthorized:
		Unauthorized(w, msg)
	case errs.KindStorageUnavailable:
		if msg == "" {
			msg = "storage unavailable"
		}
		Error(w, http.StatusInternalServerError, msg)
	default:
		InternalError(w)
	}
}
