package encryptedfield

import (
	"sync"
	"sync/atomic"
)

// Registry resolves logical keyset names to key material and hands out column
// types bound to those names. It is safe for concurrent use.
//
// Construct one Registry at process startup, pass it to the code that
// declares encrypted columns, and Close it when the process shuts down.
// Each keyset file is read at most once per Registry lifetime; subsequent
// lookups return the cached handle.
type Registry struct {
	entries map[string]*keysetEntry
	resolve func(name string, cfg KeysetConfig) (*keyHandle, error)
	closed  atomic.Bool
}

// keysetEntry memoizes the resolution of one keyset name.
// The once serializes concurrent first access: duplicate callers wait for the
// in-flight resolution instead of re-reading the file. Entries for resolved
// names are read without locking.
type keysetEntry struct {
	name   string
	config KeysetConfig
	once   sync.Once
	handle *keyHandle
	err    error
}

// RegistryOption is a functional option for configuring a Registry.
type RegistryOption func(*registryConfig)

type registryConfig struct {
	names   []string
	configs map[string]KeysetConfig
	dups    []string
}

// WithKeyset registers a keyset under a logical name.
// Names must be unique and non-empty; violations fail NewRegistry.
func WithKeyset(name string, cfg KeysetConfig) RegistryOption {
	return func(rc *registryConfig) {
		if _, ok := rc.configs[name]; ok {
			rc.dups = append(rc.dups, name)
			return
		}
		rc.configs[name] = cfg
		rc.names = append(rc.names, name)
	}
}

// WithKeysets registers every keyset in the map. Equivalent to calling
// WithKeyset once per entry.
func WithKeysets(configs map[string]KeysetConfig) RegistryOption {
	return func(rc *registryConfig) {
		for _, name := range sortedMapKeys(configs) {
			WithKeyset(name, configs[name])(rc)
		}
	}
}

// NewRegistry creates a Registry from the given keyset declarations.
// Configuration is validated eagerly; keyset files are not read until a
// column bound to their name first encrypts or decrypts.
//
// Example:
//
//	registry, err := encryptedfield.NewRegistry(
//	    encryptedfield.WithKeyset("default", encryptedfield.KeysetConfig{
//	        Path:      "/etc/keys/aead.json",
//	        Cleartext: true,
//	    }),
//	    encryptedfield.WithKeyset("searchable", encryptedfield.KeysetConfig{
//	        Path:      "/etc/keys/daead.json",
//	        Cleartext: true,
//	    }),
//	)
func NewRegistry(opts ...RegistryOption) (*Registry, error) {
	rc := &registryConfig{configs: make(map[string]KeysetConfig)}
	for _, opt := range opts {
		opt(rc)
	}

	if len(rc.dups) > 0 {
		return nil, ErrDuplicateKeyset
	}
	if len(rc.configs) == 0 {
		return nil, ErrNoKeysets
	}

	entries := make(map[string]*keysetEntry, len(rc.configs))
	for _, name := range rc.names {
		if name == "" {
			return nil, ErrInvalidKeysetName
		}
		cfg := rc.configs[name]
		if err := cfg.validate(); err != nil {
			return nil, err
		}
		entries[name] = &keysetEntry{name: name, config: cfg}
	}

	return &Registry{entries: entries, resolve: resolveKeyset}, nil
}

// handle returns the cached key handle for name, resolving it on first use.
// The resolved handle must support the expected primitive kind; there is no
// silent fallback between kinds.
func (r *Registry) handle(name string, expected PrimitiveKind) (*keyHandle, error) {
	if r.closed.Load() {
		return nil, ErrRegistryClosed
	}

	e, ok := r.entries[name]
	if !ok {
		return nil, ErrUnknownKeyset
	}

	e.once.Do(func() {
		e.handle, e.err = r.resolve(e.name, e.config)
	})
	if e.err != nil {
		return nil, e.err
	}
	if e.handle.kind != expected {
		return nil, ErrKeysetKindMismatch
	}
	return e.handle, nil
}

// Names returns all registered keyset names, sorted alphabetically.
func (r *Registry) Names() []string {
	return sortedMapKeys(r.entries)
}

// EncryptedColumn returns a randomized-AEAD column type bound to the named
// keyset. The keyset file is not read until the column first encrypts or
// decrypts; an unregistered name fails here, at declaration time.
func (r *Registry) EncryptedColumn(keysetName string, opts ...ColumnOption) (*EncryptedColumn, error) {
	c, err := r.newColumn(keysetName, KindAEAD, opts)
	if err != nil {
		return nil, err
	}
	return &EncryptedColumn{column: c}, nil
}

// DeterministicColumn returns a deterministic-AEAD column type bound to the
// named keyset. Equal plaintexts produce byte-identical storage values,
// enabling equality search; see the package documentation for the
// equality-leakage tradeoff.
func (r *Registry) DeterministicColumn(keysetName string, opts ...ColumnOption) (*DeterministicColumn, error) {
	c, err := r.newColumn(keysetName, KindDAEAD, opts)
	if err != nil {
		return nil, err
	}
	return &DeterministicColumn{column: c}, nil
}

func (r *Registry) newColumn(keysetName string, kind PrimitiveKind, opts []ColumnOption) (*column, error) {
	if r.closed.Load() {
		return nil, ErrRegistryClosed
	}
	if _, ok := r.entries[keysetName]; !ok {
		return nil, ErrUnknownKeyset
	}
	return newColumn(r, keysetName, kind, opts)
}

// Close marks the registry unusable. Columns created from this registry fail
// with ErrRegistryClosed afterwards; operations already past the closed check
// complete against their resolved handle. Handles hold provider primitives,
// never raw key bytes, so there is no key material to zero here.
func (r *Registry) Close() {
	r.closed.Store(true)
	for _, e := range r.entries {
		// Unresolved entries are poisoned so they never touch the keyset
		// file after Close.
		e.once.Do(func() { e.err = ErrRegistryClosed })
	}
}
