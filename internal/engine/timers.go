package engine

import (
	"log"
	"time"

	"github.com/lazypower/prig/internal/query"
)

// suggestionInterval is how often the reconnect suggestions are refreshed
// while serving. The query is read-only and idempotent, so a missed or
// doubled tick is harmless.
const suggestionInterval = 5 * time.Minute

// StartDecayTimer re-runs the decay pass daily. The pass also runs on every
// Load; the timer covers long-lived server processes.
func (e *Engine) StartDecayTimer() {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if updated, err := e.ApplyDecay(time.Now()); err != nil {
					log.Printf("decay error: %v", err)
				} else if updated > 0 {
					log.Printf("decay: updated %d relationships", updated)
				}
			case <-e.stopCh:
				return
			}
		}
	}()
}

// StartSuggestionTimer refreshes the cached reconnect suggestions now and
// every suggestionInterval.
func (e *Engine) StartSuggestionTimer() {
	e.refreshSuggestions()

	go func() {
		ticker := time.NewTicker(suggestionInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				e.refreshSuggestions()
			case <-e.stopCh:
				return
			}
		}
	}()
}

func (e *Engine) refreshSuggestions() {
	suggestions := query.ReconnectSuggestions(e.Index, time.Now())

	e.sugMu.Lock()
	e.suggestions = suggestions
	e.sugMu.Unlock()
}

// Suggestions returns the most recently computed reconnect suggestions.
func (e *Engine) Suggestions() []query.Suggestion {
	e.sugMu.RLock()
	defer e.sugMu.RUnlock()
	return e.suggestions
}

// Stop shuts down the engine's background goroutines.
func (e *Engine) Stop() {
	close(e.stopCh)
}
