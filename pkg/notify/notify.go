// Package notify delivers user notifications to the inbox and to any
// configured external sinks.
package notify

//go:generate mockgen -source=$GOFILE -destination=mock/mock.go -package=mock_notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/fadedpez/friendbet/pkg/entities"
)

// Notifier delivers a single notification
type Notifier interface {
	Notify(ctx context.Context, n *entities.Notification) error
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(ctx context.Context, n *entities.Notification) error

func (f NotifierFunc) Notify(ctx context.Context, n *entities.Notification) error {
	return f(ctx, n)
}

// Sink is a named Notifier
type Sink struct {
	Name     string
	Notifier Notifier
}

// SinkError reports which sink failed
type SinkError struct {
	Sink string
	Err  error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Sink, e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}

// Multi sends every notification to each sink in turn. One failing sink does
// not stop the others; all failures are joined.
type Multi struct {
	sinks []Sink
}

// NewMulti creates a fan-out over sinks
func NewMulti(sinks ...Sink) *Multi {
	return &Multi{sinks: sinks}
}

// Add appends a sink
func (m *Multi) Add(name string, n Notifier) {
	m.sinks = append(m.sinks, Sink{Name: name, Notifier: n})
}

// Sinks returns the sink names in delivery order
func (m *Multi) Sinks() []string {
	names := make([]string, 0, len(m.sinks))
	for _, s := range m.sinks {
		names = append(names, s.Name)
	}
	return names
}

// Notify implements Notifier
func (m *Multi) Notify(ctx context.Context, n *entities.Notification) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Notifier.Notify(ctx, n); err != nil {
			errs = append(errs, &SinkError{Sink: s.Name, Err: err})
		}
	}
	return errors.Join(errs...)
}

// FailedSinks lists the sinks named in err
func FailedSinks(err error) []string {
	if err == nil {
		return nil
	}

	var names []string
	var walk func(error)
	walk = func(e error) {
		var sinkErr *SinkError
		if joined, ok := e.(interface{ Unwrap() []error }); ok {
			for _, inner := range joined.Unwrap() {
				walk(inner)
			}
			return
		}
		if errors.As(e, &sinkErr) {
			names = append(names, sinkErr.Sink)
		}
	}
	walk(err)
	return names
}
