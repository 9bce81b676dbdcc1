// Package web exposes the auth gateway's HTTP surface: form endpoints,
// the Google OAuth entry points, the provider callback handler and the
// state/preferences endpoints backing the auth UI.
package web

import (
	"encoding/json"
	"net/http"

	"github.com/viralpost/authgate/pkg/validator"
)

// Response renders itself onto the response writer. Handlers return one and
// the shared render helper takes care of logging render failures.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// JSONBody is the envelope every JSON endpoint answers with.
type JSONBody struct {
	Code    string       `json:"code,omitempty"`
	Message string       `json:"message,omitempty"`
	Data    any          `json:"data,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail carries error information, with per-field messages for
// validation failures.
type ErrorDetail struct {
	Code    string              `json:"code,omitempty"`
	Message string              `json:"message,omitempty"`
	Details map[string][]string `json:"details,omitempty"`
}

type jsonResponse struct {
	status int
	body   JSONBody
}

func (j jsonResponse) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

// JSON creates a 200 response carrying data.
func JSON(data any) Response {
	return jsonResponse{
		status: http.StatusOK,
		body:   JSONBody{Code: "ok", Data: data},
	}
}

// JSONMessage creates a 200 response with an application code and a
// user-facing message.
func JSONMessage(code, message string, data any) Response {
	return jsonResponse{
		status: http.StatusOK,
		body:   JSONBody{Code: code, Message: message, Data: data},
	}
}

// JSONError creates an error response with the given status.
func JSONError(status int, code, message string) Response {
	return jsonResponse{
		status: status,
		body: JSONBody{
			Code:  code,
			Error: &ErrorDetail{Code: code, Message: message},
		},
	}
}

// ValidationFailed renders field-scoped validation errors as a 422.
func ValidationFailed(err error) Response {
	detail := &ErrorDetail{
		Code:    "validation_error",
		Message: "Validation failed",
		Details: validator.Extract(err).Map(),
	}
	return jsonResponse{
		status: http.StatusUnprocessableEntity,
		body:   JSONBody{Code: "validation_error", Error: detail},
	}
}

type redirectResponse struct {
	url  string
	code int
}

func (r redirectResponse) Render(w http.ResponseWriter, req *http.Request) error {
	http.Redirect(w, req, r.url, r.code)
	return nil
}

// Redirect creates a 303 See Other redirect response.
func Redirect(url string) Response {
	return redirectResponse{url: url, code: http.StatusSeeOther}
}

// RedirectWithCode creates a redirect response with a specific status code.
func RedirectWithCode(url string, code int) Response {
	return redirectResponse{url: url, code: code}
}
