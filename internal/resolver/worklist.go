// pattern: Functional Core

package resolver

// Entry is a pending unit of work. Empty Name or Suffix means unknown.
type Entry struct {
	Name   string
	Path   string
	Suffix string

	// identified is set once the identity resolver ran on this entry, so a
	// re-queued root is not queried again.
	identified bool
}

// worklist is a FIFO of entries with exact-name membership for pending work.
// Entries leave only through pop.
type worklist struct {
	entries []Entry
	pending map[string]int
}

func newWorklist() *worklist {
	return &worklist{pending: make(map[string]int)}
}

// push appends e unless an entry with the same name is already pending.
// Unnamed entries are always accepted.
func (w *worklist) push(e Entry) bool {
	if e.Name != "" {
		if w.pending[e.Name] > 0 {
			return false
		}
		w.pending[e.Name]++
	}
	w.entries = append(w.entries, e)
	return true
}

// pushFront re-inserts e at the head, bypassing the pending check.
func (w *worklist) pushFront(e Entry) {
	if e.Name != "" {
		w.pending[e.Name]++
	}
	w.entries = append([]Entry{e}, w.entries...)
}

func (w *worklist) pop() (Entry, bool) {
	if len(w.entries) == 0 {
		return Entry{}, false
	}
	e := w.entries[0]
	w.entries[0] = Entry{}
	w.entries = w.entries[1:]
	if e.Name != "" {
		if w.pending[e.Name] <= 1 {
			delete(w.pending, e.Name)
		} else {
			w.pending[e.Name]--
		}
	}
	return e, true
}

func (w *worklist) isPending(name string) bool {
	return w.pending[name] > 0
}

func (w *worklist) len() int {
	return len(w.entries)
}
