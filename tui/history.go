// Package tui provides a Bubble Tea terminal UI for the dungeon crawl.
package tui

// History is a fixed-size ring of submitted lines with cursor navigation.
type History struct {
	ring   []string
	start  int // index of the oldest entry
	size   int
	cursor int // -1 = not navigating, otherwise offset from the oldest entry
}

// NewHistory creates a history ring holding at most max lines.
func NewHistory(max int) *History {
	if max < 1 {
		max = 1
	}
	return &History{ring: make([]string, max), cursor: -1}
}

// Len returns the number of stored lines.
func (h *History) Len() int {
	return h.size
}

func (h *History) at(offset int) string {
	return h.ring[(h.start+offset)%len(h.ring)]
}

// Push records a line. Blank lines and repeats of the newest line are skipped.
func (h *History) Push(line string) {
	if line == "" {
		return
	}
	if h.size > 0 && h.at(h.size-1) == line {
		return
	}
	if h.size < len(h.ring) {
		h.ring[(h.start+h.size)%len(h.ring)] = line
		h.size++
		return
	}
	// Full: overwrite the oldest.
	h.ring[h.start] = line
	h.start = (h.start + 1) % len(h.ring)
}

// Prev steps to the previous (older) line. It stays on the oldest line
// once reached and reports false only when the ring is empty.
func (h *History) Prev() (string, bool) {
	if h.size == 0 {
		return "", false
	}
	switch {
	case h.cursor == -1:
		h.cursor = h.size - 1
	case h.cursor > 0:
		h.cursor--
	}
	return h.at(h.cursor), true
}

// Next steps to the next (newer) line. Stepping past the newest line ends
// navigation and reports false.
func (h *History) Next() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	h.cursor++
	if h.cursor >= h.size {
		h.cursor = -1
		return "", false
	}
	return h.at(h.cursor), true
}

// ResetCursor ends navigation.
func (h *History) ResetCursor() {
	h.cursor = -1
}
