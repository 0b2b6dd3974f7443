package logging

import (
	"time"

	"github.com/felixgeelhaar/bolt/v3"
)

// Field is a function that applies structured data to a log event.
type Field func(*bolt.Event) *bolt.Event

// With applies fields to e in order.
func With(e *bolt.Event, fields ...Field) *bolt.Event {
	for _, f := range fields {
		e = f(e)
	}
	return e
}

// RunID adds a run ID field.
func RunID(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("run_id", id)
	}
}

// Scenario adds a scenario name field.
func Scenario(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("scenario", name)
	}
}

// Ordering adds the planner expansion order.
func Ordering(o string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("ordering", o)
	}
}

// Steps adds a plan length field.
func Steps(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("steps", n)
	}
}

// Expanded adds the number of expanded search states.
func Expanded(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("expanded", n)
	}
}

// Duration adds a duration field in milliseconds.
func Duration(d time.Duration) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("duration_ms", d.Milliseconds())
	}
}

// Satisfied adds whether the goal already held at the start.
func Satisfied(ok bool) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Bool("already_satisfied", ok)
	}
}

// ErrorField adds an error field.
func ErrorField(err error) Field {
	return func(e *bolt.Event) *bolt.Event {
		if err == nil {
			return e
		}
		return e.Err(err)
	}
}

// Component adds a component field for categorization.
func Component(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("component", name)
	}
}
