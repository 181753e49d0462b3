// Package stream replays finished model text one word at a time so the page
// fills in progressively.
package stream

import (
	"context"
	"iter"
	"strings"
	"time"
)

// DefaultDelay is the pause between two fragments when TUTOR_STREAM_DELAY is unset
const DefaultDelay = 50 * time.Millisecond

// Emitter paces fragments of an already complete text
type Emitter struct {
	Delay time.Duration
}

// New returns an Emitter pausing delay between fragments
func New(delay time.Duration) Emitter {
	return Emitter{Delay: delay}
}

// Fragments yields every whitespace-delimited word of text followed by a
// single space, waiting Delay between successive words.
//
// The sequence is single-pass: range over it once per displayed result.
// It ends early when the consumer stops or ctx is done.
func (e Emitter) Fragments(ctx context.Context, text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		first := true
		for word := range strings.FieldsSeq(text) {
			if !first && !e.wait(ctx) {
				return
			}
			first = false

			if !yield(word + " ") {
				return
			}
		}
	}
}

func (e Emitter) wait(ctx context.Context) bool {
	if e.Delay <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(e.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
