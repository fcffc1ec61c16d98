package demux

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
)

// Registry holds the demuxers available to a host. The zero value is empty
// and ready to use.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Demuxer
	order  []Demuxer
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Demuxer)}
}

// Register adds d. Names are unique; registering a name twice is an error.
func (r *Registry) Register(d Demuxer) error {
	name := strings.ToLower(d.Name())
	if name == "" {
		return fmt.Errorf("demuxer has no name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byName == nil {
		r.byName = make(map[string]Demuxer)
	}
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("demuxer %q already registered", name)
	}
	r.byName[name] = d
	r.order = append(r.order, d)
	return nil
}

// Lookup returns the demuxer registered under name.
func (r *Registry) Lookup(name string) (Demuxer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byName[strings.ToLower(name)]
	return d, ok
}

// ForExtension returns the demuxers claiming ext, in registration order.
// A leading dot is ignored and the match is case-insensitive.
func (r *Registry) ForExtension(ext string) []Demuxer {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Demuxer
	for _, d := range r.order {
		for _, e := range d.Extensions() {
			if strings.EqualFold(strings.TrimPrefix(e, "."), ext) {
				out = append(out, d)
				break
			}
		}
	}
	return out
}

// ForURL returns the demuxers claiming the extension of url's path.
func (r *Registry) ForURL(url string) []Demuxer {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	return r.ForExtension(path.Ext(url))
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
