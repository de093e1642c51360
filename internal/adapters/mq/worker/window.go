package worker

import (
	"strings"
	"sync"

	"github.com/Naveen701372/Networking-Wingman/internal/domain/attribution"
)

// defaultWindowChars bounds the transcript context sent to the oracle.
const defaultWindowChars = 1200

// Window is a rolling, speaker-tagged transcript buffer shared by all
// workers in a pool. Old lines fall off the front once the character budget
// is exceeded so oracle prompts stay bounded.
type Window struct {
	mu       sync.Mutex
	maxChars int
	lines    []string
	size     int
}

// NewWindow creates a window holding at most maxChars of tagged transcript.
func NewWindow(maxChars int) *Window {
	if maxChars <= 0 {
		maxChars = defaultWindowChars
	}
	return &Window{maxChars: maxChars}
}

// Append adds one tagged transcript line and trims the oldest lines until
// the window fits its budget again.
func (w *Window) Append(label attribution.Label, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	line := string(label) + ": " + text

	w.mu.Lock()
	defer w.mu.Unlock()

	w.lines = append(w.lines, line)
	w.size += len(line) + 1
	for w.size > w.maxChars && len(w.lines) > 1 {
		w.size -= len(w.lines[0]) + 1
		w.lines = w.lines[1:]
	}
}

// String renders the window oldest-first, one line per segment.
func (w *Window) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return strings.Join(w.lines, "\n")
}

// Len reports the buffered character count.
func (w *Window) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.size
}

// Reset clears the window, typically on a person switch or session end.
func (w *Window) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lines = nil
	w.size = 0
}
