package battle

import "fmt"

// Narrator is the append-only narration buffer. Text accumulates during turn
// resolution and is flushed to the sink at well-defined checkpoints: before
// any suspension point and at battle end. Rendering and transport are the
// sink's problem.
//
// Narrator is not safe for concurrent use; the engine is the single writer.
type Narrator struct {
	lines []string
	sink  func(lines []string)
}

// NewNarrator creates a Narrator delivering to sink. A nil sink discards
// flushed lines.
func NewNarrator(sink func(lines []string)) *Narrator {
	if sink == nil {
		sink = func([]string) {}
	}
	return &Narrator{sink: sink}
}

// Add appends one narration line.
func (n *Narrator) Add(line string) {
	n.lines = append(n.lines, line)
}

// Addf appends one formatted narration line.
func (n *Narrator) Addf(format string, args ...any) {
	n.lines = append(n.lines, fmt.Sprintf(format, args...))
}

// Pending returns a snapshot of the buffered, not-yet-flushed lines.
func (n *Narrator) Pending() []string {
	cp := make([]string, len(n.lines))
	copy(cp, n.lines)
	return cp
}

// Flush delivers the buffered lines to the sink and clears the buffer.
// Flushing an empty buffer is a no-op.
func (n *Narrator) Flush() {
	if len(n.lines) == 0 {
		return
	}
	out := n.lines
	n.lines = nil
	n.sink(out)
}
