package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a detail lookup names an id the source does not know.
var ErrNotFound = errors.New("not found")

// NotFoundError carries the lookup that failed. It matches ErrNotFound with errors.Is.
type NotFoundError struct {
	Source string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %q not found", e.Source, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NotFound builds a NotFoundError.
func NotFound(source, id string) error {
	return &NotFoundError{Source: source, ID: id}
}

// UpstreamError reports a network, status or parse failure talking to a source.
type UpstreamError struct {
	Source string
	Op     string
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Source, e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Upstream wraps err as an UpstreamError unless it already is one or is a NotFound.
func Upstream(source, op string, err error) error {
	if err == nil {
		return nil
	}
	var ue *UpstreamError
	if errors.As(err, &ue) || errors.Is(err, ErrNotFound) {
		return err
	}
	return &UpstreamError{Source: source, Op: op, Err: err}
}
