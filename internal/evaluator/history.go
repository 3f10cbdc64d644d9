package evaluator

// agentHistory is the bounded memory kept per agent: recent reasoning texts
// for originality comparison and recent dominant biases for recurrence checks.
type agentHistory struct {
	texts  *textRing
	biases *textRing
}

func newAgentHistory(size int) *agentHistory {
	return &agentHistory{texts: newTextRing(size), biases: newTextRing(size)}
}

// textRing is a fixed-length FIFO buffer of recent strings. No time-based
// expiry: the newest entry evicts the oldest once full.
type textRing struct {
	items []string
	next  int
	full  bool
}

func newTextRing(size int) *textRing {
	if size < 1 {
		size = 1
	}
	return &textRing{items: make([]string, size)}
}

func (r *textRing) push(text string) {
	r.items[r.next] = text
	r.next++
	if r.next == len(r.items) {
		r.next = 0
		r.full = true
	}
}

// snapshot returns the buffered texts, oldest first.
func (r *textRing) snapshot() []string {
	if !r.full {
		return append([]string(nil), r.items[:r.next]...)
	}
	out := make([]string, 0, len(r.items))
	out = append(out, r.items[r.next:]...)
	out = append(out, r.items[:r.next]...)
	return out
}
