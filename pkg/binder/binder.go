// Package binder decodes HTTP request payloads into structs. Form and query
// binding are reflection-based and driven by `form:` and `query:` struct
// tags; JSON binding delegates to encoding/json in strict mode.
package binder

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrInvalidJSON          = errors.New("invalid JSON")
	ErrInvalidForm          = errors.New("invalid form data")
	ErrInvalidQuery         = errors.New("invalid query parameter")
)

// Form binds application/x-www-form-urlencoded body fields into v using
// `form:` tags. Fields absent from the submission keep their zero value.
func Form(r *http.Request, v any) error {
	if mt := mediaType(r); mt != "" && mt != "application/x-www-form-urlencoded" {
		return fmt.Errorf("%w: got %s, expected application/x-www-form-urlencoded", ErrUnsupportedMediaType, mt)
	}

	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}

	return bindToStruct(v, "form", r.Form, ErrInvalidForm)
}

// Query binds URL query parameters into v using `query:` tags.
func Query(r *http.Request, v any) error {
	return bindToStruct(v, "query", r.URL.Query(), ErrInvalidQuery)
}

// JSON binds an application/json body into v. Unknown fields and trailing
// data are rejected.
func JSON(r *http.Request, v any) error {
	if mt := mediaType(r); mt != "application/json" {
		return fmt.Errorf("%w: got %q, expected application/json", ErrUnsupportedMediaType, mt)
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", ErrInvalidJSON)
		}
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: unexpected data after JSON object", ErrInvalidJSON)
	}

	return nil
}

func mediaType(r *http.Request) string {
	ct := r.Header.Get("Content-Type")
	if idx := strings.Index(ct, ";"); idx != -1 {
		ct = ct[:idx]
	}
	return strings.TrimSpace(ct)
}
