package flexnet

import "sync"

// vendorLocation is where a manager's STUBR redirect said a vendor
// daemon lives.
type vendorLocation struct {
	host string
	port uint32
}

// vendorRegistry tracks vendor redirects discovered on the manager
// connection, the way the small mutex-guarded flow table in the
// teacher tracked in-progress handshakes — here keyed by vendor name
// instead of network flow.
type vendorRegistry struct {
	mu   sync.Mutex
	locs map[string]vendorLocation
}

func newVendorRegistry() *vendorRegistry {
	return &vendorRegistry{locs: make(map[string]vendorLocation)}
}

func (r *vendorRegistry) set(name, host string, port uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locs[name] = vendorLocation{host: host, port: port}
}

func (r *vendorRegistry) get(name string) (vendorLocation, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	loc, ok := r.locs[name]
	return loc, ok
}
