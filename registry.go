package main

// Registry maps peer display names to the last IPv4 address they were seen
// at. Names keep the order in which they were first seen. Entries are never
// removed: the protocol has no departure message.
//
// Registry does no locking of its own; the session mutex covers it.
type Registry struct {
	order []string
	addrs map[string]string
}

func NewRegistry() *Registry {
	return &Registry{addrs: make(map[string]string)}
}

// RecordPresence stores addr for name and reports whether name was new.
func (r *Registry) RecordPresence(name, addr string) bool {
	if _, ok := r.addrs[name]; ok {
		r.addrs[name] = addr
		return false
	}
	r.addrs[name] = addr
	r.order = append(r.order, name)
	return true
}

// Rename moves the entry for oldName to newName. It reports false and
// changes nothing when oldName is unknown. When newName is already present it
// keeps its place and takes over oldName's address.
func (r *Registry) Rename(oldName, newName string) bool {
	addr, ok := r.addrs[oldName]
	if !ok {
		return false
	}
	if oldName == newName {
		return true
	}

	idx := r.index(oldName)
	if _, taken := r.addrs[newName]; taken {
		r.order = append(r.order[:idx], r.order[idx+1:]...)
	} else {
		r.order[idx] = newName
	}
	delete(r.addrs, oldName)
	r.addrs[newName] = addr
	return true
}

// Names returns a copy of the known names in first-seen order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

func (r *Registry) Addr(name string) (string, bool) {
	addr, ok := r.addrs[name]
	return addr, ok
}

func (r *Registry) Len() int {
	return len(r.order)
}

func (r *Registry) index(name string) int {
	for i, n := range r.order {
		if n == name {
			return i
		}
	}
	return -1
}
