package catalog

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Registry holds the current catalog snapshot. Reads are lock-free; a reload
// replaces the whole snapshot at once so a request never sees a mix of old
// and new resources.
type Registry struct {
	current atomic.Pointer[Snapshot]
	path    string
	logger  *slog.Logger

	// reloadMu serializes reloads; readers never take it.
	reloadMu sync.Mutex
	onSwap   []func(*Snapshot)
	onReload []func(error)
}

// NewRegistry creates a registry serving snap. path is the file Reload reads
// and may be empty for registries built from in-memory data.
func NewRegistry(snap *Snapshot, path string, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{path: path, logger: logger}
	r.current.Store(snap)
	return r
}

// Open loads the catalog at path and returns a registry serving it.
func Open(path string, logger *slog.Logger) (*Registry, error) {
	snap, err := Load(path)
	if err != nil {
		return nil, err
	}
	return NewRegistry(snap, path, logger), nil
}

// Snapshot returns the snapshot currently being served.
func (r *Registry) Snapshot() *Snapshot {
	return r.current.Load()
}

// Resolve resolves uri against the current snapshot.
func (r *Registry) Resolve(uri string) (*Resource, map[string]string, bool) {
	return r.current.Load().Resolve(uri)
}

// Get returns the named resource from the current snapshot.
func (r *Registry) Get(name string) (*Resource, bool) {
	return r.current.Load().Get(name)
}

// OnSwap registers fn to be called after every successful snapshot swap.
func (r *Registry) OnSwap(fn func(*Snapshot)) {
	r.reloadMu.Lock()
	defer r.reloadMu.Unlock()
	r.onSwap = append(r.onSwap, fn)
}

// OnReload registers fn to be called after every Reload attempt with its
// result; nil means the file was read and is being served.
func (r *Registry) OnReload(fn func(error)) {
	r.reloadMu.Lock()
	defer r.reloadMu.Unlock()
	r.onReload = append(r.onReload, fn)
}

// Replace swaps in snap.
func (r *Registry) Replace(snap *Snapshot) {
	if snap == nil {
		return
	}
	r.reloadMu.Lock()
	defer r.reloadMu.Unlock()
	r.swap(snap)
}

// Reload re-reads the catalog file. On failure the current snapshot keeps
// being served and the error is returned.
func (r *Registry) Reload() (err error) {
	if r.path == "" {
		return fmt.Errorf("catalog: registry has no backing file")
	}

	r.reloadMu.Lock()
	defer r.reloadMu.Unlock()
	defer func() {
		for _, fn := range r.onReload {
			fn(err)
		}
	}()

	snap, err := Load(r.path)
	if err != nil {
		r.logger.Error("Catalog reload failed, keeping previous snapshot",
			"path", r.path,
			"version", r.current.Load().Version(),
			"error", err,
		)
		return err
	}
	if snap.Version() == r.current.Load().Version() {
		r.logger.Debug("Catalog unchanged", "path", r.path, "version", snap.Version())
		return nil
	}

	r.swap(snap)
	return nil
}

// swap must be called with reloadMu held.
func (r *Registry) swap(snap *Snapshot) {
	old := r.current.Swap(snap)
	r.logger.Info("Catalog snapshot replaced",
		"path", r.path,
		"old_version", old.Version(),
		"new_version", snap.Version(),
		"resources", snap.Len(),
	)
	for _, fn := range r.onSwap {
		fn(snap)
	}
}
