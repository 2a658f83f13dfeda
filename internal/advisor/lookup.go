// internal/advisor/lookup.go
//
// Fire-and-forget lookup with stale-result discard. The lookup captures
// the word it was started for; by the time it resolves the user may have
// typed something else, and a result for a superseded word must be
// dropped, never applied.

package advisor

import "context"

// CheckFunc performs a single advisory lookup.
type CheckFunc func(ctx context.Context, word string) (string, error)

type outcome struct {
	text string
	err  error
}

// Lookup is one in-flight advisory request.
type Lookup struct {
	word string
	ch   chan outcome
}

// StartLookup begins checking word in the background. The buffered channel
// lets the goroutine finish even if the result is never collected.
func StartLookup(ctx context.Context, word string, fn CheckFunc) *Lookup {
	l := &Lookup{word: word, ch: make(chan outcome, 1)}
	go func() {
		text, err := fn(ctx, word)
		l.ch <- outcome{text: text, err: err}
	}()
	return l
}

// Word returns the subject captured at request time.
func (l *Lookup) Word() string { return l.word }

// Resolve waits for the result and compares the captured subject against
// current, the input at resolution time. Stale results and failures both
// report ok=false; the caller shows nothing either way.
func (l *Lookup) Resolve(current string) (string, bool) {
	out := <-l.ch
	if current != l.word || out.err != nil || out.text == "" {
		return "", false
	}
	return out.text, true
}
