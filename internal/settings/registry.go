// Package settings implements the vmx persisted-settings registry: a
// process-wide, validated, thread-safe key/value store split across two
// independently scoped backing files.
//
// Daemon-scoped keys (prefix "local") persist to a central file owned
// by the daemon process; client-scoped keys (prefix "client") persist
// to the invoking user's config directory. Every read and write runs
// through the same pipeline: validate the key against the defaults
// table, validate and normalize the value (writes only), resolve the
// scope's backing file, perform the I/O under a single registry-wide
// lock, and verify the store status. Failures surface as one of
// [UnrecognizedSettingError], [InvalidSettingError], or
// [PersistentSettingsError].
package settings

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/vmx/internal/logging"
	"github.com/thoreinstein/vmx/internal/platform"
	"github.com/thoreinstein/vmx/internal/settings/inifile"
	"github.com/thoreinstein/vmx/internal/settings/store"
)

// Handler is a registered extension point for additional setting
// domains. The base registry only keeps registration bookkeeping;
// handlers are consulted by future interpretation layers.
type Handler interface {
	Keys() []string
}

// Registry is the settings façade. Create one per process with New and
// inject it where needed.
type Registry struct {
	mu       sync.Mutex
	specs    map[string]SettingSpec
	handlers []Handler
	resolver *PathResolver
	factory  store.Factory
	probe    store.FileProbe
	log      *slog.Logger
}

// Option customizes a Registry.
type Option func(*Registry)

// WithFactory substitutes the backing store factory. Tests use this to
// avoid touching the filesystem.
func WithFactory(f store.Factory) Option {
	return func(r *Registry) { r.factory = f }
}

// WithProbe substitutes the read-probe used for access-error
// disambiguation.
func WithProbe(p store.FileProbe) Option {
	return func(r *Registry) { r.probe = p }
}

// WithLogger sets the registry's logger.
func WithLogger(log *slog.Logger) Option {
	return func(r *Registry) { r.log = log }
}

// WithResolver substitutes the path resolver.
func WithResolver(resolver *PathResolver) Option {
	return func(r *Registry) { r.resolver = resolver }
}

// New builds a registry from the platform's capability provider. The
// defaults table is fixed from this point on; every recognized key has
// exactly one default.
func New(caps platform.Capabilities, opts ...Option) (*Registry, error) {
	r := &Registry{
		specs:    defaultSpecs(caps),
		resolver: NewPathResolver(caps),
		factory:  inifile.NewFactory(),
		probe:    store.OSProbe{},
		log:      logging.NewDiscard(),
	}
	for _, opt := range opts {
		opt(r)
	}

	for key, spec := range r.specs {
		if spec.Interpret == nil {
			return nil, errors.Newf("setting %q registered without an interpret function", key)
		}
		if _, err := r.resolver.FileFor(key); err != nil {
			return nil, errors.Wrapf(err, "setting %q matches no scope", key)
		}
	}

	return r, nil
}

// Keys returns all recognized setting keys, sorted.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.specs))
	for key := range r.specs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// RegisterHandler appends a handler to the registry's extension list.
// Order is insertion order.
func (r *Registry) RegisterHandler(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = append(r.handlers, h)
}

// Handlers returns the registered handlers in registration order.
func (r *Registry) Handlers() []Handler {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Handler(nil), r.handlers...)
}

// DaemonSettingsFilePath returns the daemon-scope settings file path.
func (r *Registry) DaemonSettingsFilePath() string { return r.resolver.DaemonFile() }

// ClientSettingsFilePath returns the client-scope settings file path.
func (r *Registry) ClientSettingsFilePath() string { return r.resolver.ClientFile() }

// Default returns the default value recorded for key.
func (r *Registry) Default(key string) (string, error) {
	spec, err := r.spec(key)
	if err != nil {
		return "", err
	}
	return spec.Default, nil
}

// Get reads the stored value for key, falling back to its default when
// nothing is persisted yet.
func (r *Registry) Get(key string) (string, error) {
	spec, err := r.spec(key) // make sure the key is valid before reading from disk
	if err != nil {
		return "", err
	}

	file, err := r.resolver.FileFor(key)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	st := r.factory.Open(file)
	value := st.Value(key, spec.Default)
	if err := r.checkStatus(st, opRead); err != nil {
		return "", err
	}

	return value, nil
}

// Set validates, normalizes, and persists a value for key. The
// normalized value is what gets written; validation failures leave the
// backing file untouched.
func (r *Registry) Set(key, value string) error {
	spec, err := r.spec(key) // make sure the key is valid before setting
	if err != nil {
		return err
	}

	interpreted, err := spec.Interpret(value)
	if err != nil {
		return err // no I/O on rejection
	}

	file, err := r.resolver.FileFor(key)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	st := r.factory.Open(file)
	st.SetValue(key, interpreted)
	st.Sync() // flush to confirm we can write
	if err := r.checkStatus(st, opReadWrite); err != nil {
		return err
	}

	r.log.Debug("setting persisted", "key", key, "value", interpreted, "file", st.FileName())
	return nil
}

func (r *Registry) spec(key string) (SettingSpec, error) {
	spec, ok := r.specs[key]
	if !ok {
		return SettingSpec{}, &UnrecognizedSettingError{Key: key}
	}
	return spec, nil
}

// checkStatus translates store status into the error taxonomy. Even
// when the store reports ok, a probe open catches files that exist but
// cannot be read due to permissions.
func (r *Registry) checkStatus(st store.Store, operation string) error {
	status := st.Status()
	if status != store.StatusOK || store.ExistsButUnreadable(r.probe, st.FileName()) {
		cause := causeAccess
		if status == store.StatusFormatError {
			cause = causeFormat
		}
		return &PersistentSettingsError{Operation: operation, Cause: cause}
	}
	return nil
}
