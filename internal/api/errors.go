package api

import (
	"errors"
	"fmt"
)

type Kind string

const (
	// KindNetwork: no response was received (connection failure, timeout).
	KindNetwork Kind = "network"
	// KindInvalid: the server rejected the request with a 4xx status.
	KindInvalid Kind = "invalid"
	// KindFailed: 5xx status or a response that could not be understood.
	KindFailed Kind = "failed"
)

// Error is returned by every remote call that did not succeed.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("api %s error (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("api %s error: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of an api error anywhere in err's chain.
func KindOf(err error) (Kind, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}
	return "", false
}

func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

func classifyStatus(status int) Kind {
	switch {
	case status >= 400 && status < 500:
		return KindInvalid
	default:
		return KindFailed
	}
}
