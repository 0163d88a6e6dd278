package binaryinfo

// Addr is a handle to an entry in a Registry. It stands for the entry's
// address in the entry table and only becomes an address when an image is
// linked.
type Addr int

// Index returns the position of the entry in the entry table
func (a Addr) Index() int { return int(a) }

// Registry collects entries at build time. Each Add places one record and one
// entry table slot; nothing can be removed.
type Registry struct {
	entries []Entry
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Add registers e and returns its handle.
func (r *Registry) Add(e Entry) Addr {
	r.entries = append(r.entries, e)
	return Addr(len(r.entries) - 1)
}

// Lookup returns the entry behind a handle
func (r *Registry) Lookup(a Addr) (Entry, bool) {
	if int(a) < 0 || int(a) >= len(r.entries) {
		return nil, false
	}
	return r.entries[a], true
}

// Len returns the number of registered entries
func (r *Registry) Len() int {
	return len(r.entries)
}

// Entries returns the registered entries in table order. The slice is a copy.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}
