package prefabs

import (
	"path/filepath"
	"sync"
)

// Library holds the loaded gun variant specs, keyed by spec name. Reload is
// safe to call from a watcher goroutine while the sim reads.
type Library struct {
	mu    sync.RWMutex
	files map[string]string // spec name -> source file
	specs map[string]*TetherGunSpec
}

// NewLibrary loads each yaml file into a fresh library.
func NewLibrary(files ...string) (*Library, error) {
	l := &Library{
		files: make(map[string]string),
		specs: make(map[string]*TetherGunSpec),
	}
	for _, f := range files {
		if err := l.Reload(f); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Spec returns the named gun variant.
func (l *Library) Spec(name string) (*TetherGunSpec, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	spec, ok := l.specs[name]
	return spec, ok
}

// Names lists the loaded variants.
func (l *Library) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, 0, len(l.specs))
	for name := range l.specs {
		out = append(out, name)
	}
	return out
}

// Reload re-reads one spec file, replacing the variant it defines.
func (l *Library) Reload(file string) error {
	spec, err := LoadTetherGunSpec(filepath.Base(file))
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.files[spec.Name] = file
	l.specs[spec.Name] = spec
	l.mu.Unlock()
	return nil
}
