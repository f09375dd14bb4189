package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	xhttp "InsideX/pkg/http"
)

// Kind classifies an APIError by where it arose.
type Kind string

const (
	// KindTransport: the request never produced a response (network, timeout, cancel).
	KindTransport Kind = "transport"
	// KindHTTP: the server answered with a non-2xx status.
	KindHTTP Kind = "http"
	// KindDecode: a 2xx body did not match the expected schema.
	KindDecode Kind = "decode"
	// KindValidation: the request was rejected locally before any network call.
	KindValidation Kind = "validation"
)

// APIError is the single error shape returned by every Client operation.
type APIError struct {
	Op      string
	Kind    Kind
	Message string
	// Status is the HTTP status, zero when no response was received.
	Status int
	// Payload is the raw response body, if any.
	Payload []byte
	Err     error
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// IsNotFound reports whether the server answered 404.
func (e *APIError) IsNotFound() bool { return e.Kind == KindHTTP && e.Status == http.StatusNotFound }

// AsAPIError unwraps err into an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsNotFound reports whether err is an APIError carrying a 404.
func IsNotFound(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.IsNotFound()
}

// Message returns a message fit for display. Non-API errors get a generic text.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.Message
	}
	return "An unexpected error occurred"
}

func validationError(op, msg string, err error) *APIError {
	return &APIError{Op: op, Kind: KindValidation, Message: msg, Err: err}
}

func decodeError(op string, body []byte, err error) *APIError {
	return &APIError{
		Op:      op,
		Kind:    KindDecode,
		Message: "Unexpected response from server: " + err.Error(),
		Payload: body,
		Err:     err,
	}
}

// normalize turns any failure of the HTTP layer into an *APIError.
func normalize(op string, err error) *APIError {
	var se *xhttp.StatusError
	if errors.As(err, &se) {
		msg := detailMessage(se.Body)
		if msg == "" {
			msg = fmt.Sprintf("Request failed with status %d", se.StatusCode)
			if text := http.StatusText(se.StatusCode); text != "" {
				msg += " (" + text + ")"
			}
		}
		return &APIError{Op: op, Kind: KindHTTP, Message: msg, Status: se.StatusCode, Payload: se.Body, Err: err}
	}

	var de *xhttp.DecodeError
	if errors.As(err, &de) {
		return decodeError(op, de.Body, de.Err)
	}

	msg := err.Error()
	var ne net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &ne) && ne.Timeout():
		msg = "Request timed out"
	case errors.Is(err, context.Canceled):
		msg = "Request canceled"
	}
	return &APIError{Op: op, Kind: KindTransport, Message: msg, Err: err}
}

// detailMessage extracts a server message from an error body. It understands
// {"detail": "..."}, FastAPI's {"detail": [{"msg": ...}]}, a detail object with
// a message field, and {"message": ..., "data": [{"message": ...}]}.
func detailMessage(body []byte) string {
	var env struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if len(body) == 0 || json.Unmarshal(body, &env) != nil {
		return ""
	}

	if len(env.Detail) > 0 {
		var s string
		if json.Unmarshal(env.Detail, &s) == nil {
			return s
		}
		var list []struct {
			Msg     string `json:"msg"`
			Message string `json:"message"`
		}
		if json.Unmarshal(env.Detail, &list) == nil {
			msgs := make([]string, 0, len(list))
			for _, it := range list {
				if it.Msg != "" {
					msgs = append(msgs, it.Msg)
				} else if it.Message != "" {
					msgs = append(msgs, it.Message)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
		var obj struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(env.Detail, &obj) == nil && obj.Message != "" {
			return obj.Message
		}
	}

	if len(env.Data) > 0 {
		var list []struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(env.Data, &list) == nil && len(list) > 0 && list[0].Message != "" {
			return list[0].Message
		}
	}
	return env.Message
}
