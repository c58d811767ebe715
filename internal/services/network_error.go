package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"bizplan/pkg/utils"
)

type NetworkErrorKind string

const (
	KindTransport NetworkErrorKind = "transport"
	KindStatus    NetworkErrorKind = "status"
	KindTimeout   NetworkErrorKind = "timeout"
	KindDecode    NetworkErrorKind = "decode"
	KindCanceled  NetworkErrorKind = "canceled"
)

// NetworkError is any failed call to the analysis service. It matches
// utils.ErrNetwork, and utils.ErrTimeout as well when Kind is KindTimeout.
type NetworkError struct {
	Op         string
	Kind       NetworkErrorKind
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("%s: analysis service returned status %d", e.Op, e.StatusCode)
	case KindTimeout:
		return fmt.Sprintf("%s: analysis service timed out", e.Op)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool {
	switch target {
	case utils.ErrNetwork:
		return true
	case utils.ErrTimeout:
		return e.Kind == KindTimeout
	}
	return false
}

// classifyTransport turns an http.Client error into a NetworkError.
func classifyTransport(op string, err error) *NetworkError {
	var ue *url.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &ue) && ue.Timeout():
		return &NetworkError{Op: op, Kind: KindTimeout, Err: err}
	case errors.Is(err, context.Canceled):
		return &NetworkError{Op: op, Kind: KindCanceled, Err: err}
	default:
		return &NetworkError{Op: op, Kind: KindTransport, Err: err}
	}
}
