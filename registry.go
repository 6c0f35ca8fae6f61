package linguist

import (
	"io"
	"log/slog"
	"slices"
	"sync"
)

// PresetFunc renders a Preset template. It replaces the Expander for
// templates defined with a preset tag.
type PresetFunc func(p *Preset, params map[string]any, locale string) (string, error)

// Registry owns every locale dictionary, the preset renderers and the locale
// tree used for fallback. It is safe for concurrent use: Render and Find may
// run in parallel, Define and Revert are exclusive.
type Registry struct {
	mu      sync.RWMutex
	store   *pathStore
	presets map[string]PresetFunc

	tree          *LocaleTree
	expander      Expander
	minSimilarity float64
	logger        *slog.Logger

	listenerMu sync.Mutex
	listeners  map[int]func()
	nextID     int
}

// Option configures a Registry.
type Option func(*registryOptions)

type registryOptions struct {
	config  Config
	logger  *slog.Logger
	exp     Expander
	bundled bool
}

// WithLogger sets the diagnostics sink. Without it diagnostics are discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(o *registryOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(o *registryOptions) {
		o.config = cfg
	}
}

// WithLocales sets the configured locale list, in fallback order.
func WithLocales(locales ...string) Option {
	return func(o *registryOptions) {
		o.config.Locales = locales
	}
}

// WithMinSimilarity sets the default Find threshold.
func WithMinSimilarity(v float64) Option {
	return func(o *registryOptions) {
		o.config.MinSimilarity = v
	}
}

// WithExpander replaces the default TemplateExpander.
func WithExpander(x Expander) Option {
	return func(o *registryOptions) {
		if x != nil {
			o.exp = x
		}
	}
}

// WithoutBundled skips the built-in dictionaries.
func WithoutBundled() Option {
	return func(o *registryOptions) {
		o.bundled = false
	}
}

// New creates a Registry. The root entry ("", "") and, unless disabled, the
// bundled dictionaries are defined before New returns.
func New(opts ...Option) (*Registry, error) {
	o := registryOptions{
		config:  DefaultConfig(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		bundled: true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.config.Validate(); err != nil {
		return nil, err
	}
	if o.exp == nil {
		o.exp = NewTemplateExpander()
	}

	for _, code := range o.config.Locales {
		if !WellFormedLocale(code) {
			o.logger.Warn("locale is not a canonical BCP 47 tag", "locale", code)
		}
	}

	r := &Registry{
		store:         newPathStore(o.logger),
		presets:       map[string]PresetFunc{},
		tree:          NewLocaleTree(o.config.Locales),
		expander:      o.exp,
		minSimilarity: o.config.MinSimilarity,
		logger:        o.logger,
		listeners:     map[int]func(){},
	}

	r.Define("", Dict{"": Text("")})
	if o.bundled {
		if _, err := r.LoadFS(bundledFS, bundledDir); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// MustNew is New that panics on error, for package-level initialisation.
func MustNew(opts ...Option) *Registry {
	r, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return r
}

///////////////////////////////////////////////////////////////////////////////
// DEFINITIONS
///////////////////////////////////////////////////////////////////////////////

// Handle reverts the paths written by one Define call.
type Handle struct {
	registry *Registry
	locale   string
	paths    []string
	once     sync.Once
}

// Locale returns the locale the handle belongs to.
func (h *Handle) Locale() string { return h.locale }

// Paths returns the concrete paths written by the Define call.
func (h *Handle) Paths() []string { return slices.Clone(h.paths) }

// Revert deletes every path the Define call wrote and emits a change
// notification. Calls after the first are no-ops.
func (h *Handle) Revert() {
	h.once.Do(func() {
		r := h.registry
		r.mu.Lock()
		r.store.revert(h.locale, h.paths)
		r.mu.Unlock()
		r.emit()
	})
}

// Define flattens dict into the locale's dictionary.
func (r *Registry) Define(locale string, dict Dict) *Handle {
	return r.define(locale, "", dict)
}

// DefineKey writes value at path. A nil value deletes the path; a Dict value is
// flattened below it.
func (r *Registry) DefineKey(locale, path string, value Node) *Handle {
	return r.define(locale, path, value)
}

func (r *Registry) define(locale, prefix string, value Node) *Handle {
	r.mu.Lock()
	paths := r.store.define(locale, prefix, value)
	r.mu.Unlock()
	r.emit()
	return &Handle{registry: r, locale: locale, paths: paths}
}

// RegisterPreset registers the renderer for a preset tag. The last
// registration for a tag wins.
func (r *Registry) RegisterPreset(tag string, fn PresetFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.presets[tag] = fn
}

///////////////////////////////////////////////////////////////////////////////
// SCOPES
///////////////////////////////////////////////////////////////////////////////

// Scope groups definitions that share a lifetime, such as everything a plugin
// registers. Close reverts them all.
type Scope struct {
	registry *Registry
	mu       sync.Mutex
	handles  []*Handle
}

// Scope opens a new definition scope.
func (r *Registry) Scope() *Scope {
	return &Scope{registry: r}
}

func (s *Scope) track(h *Handle) *Handle {
	s.mu.Lock()
	s.handles = append(s.handles, h)
	s.mu.Unlock()
	return h
}

// Define is Registry.Define tied to the scope.
func (s *Scope) Define(locale string, dict Dict) *Handle {
	return s.track(s.registry.Define(locale, dict))
}

// DefineKey is Registry.DefineKey tied to the scope.
func (s *Scope) DefineKey(locale, path string, value Node) *Handle {
	return s.track(s.registry.DefineKey(locale, path, value))
}

// Close reverts every definition made through the scope, newest first.
func (s *Scope) Close() {
	s.mu.Lock()
	handles := s.handles
	s.handles = nil
	s.mu.Unlock()

	for i := len(handles) - 1; i >= 0; i-- {
		handles[i].Revert()
	}
}

///////////////////////////////////////////////////////////////////////////////
// CHANGE NOTIFICATIONS
///////////////////////////////////////////////////////////////////////////////

// OnChange subscribes fn to change notifications. Notifications carry no
// payload; subscribers re-read the registry. The returned func unsubscribes.
func (r *Registry) OnChange(fn func()) (cancel func()) {
	r.listenerMu.Lock()
	id := r.nextID
	r.nextID++
	r.listeners[id] = fn
	r.listenerMu.Unlock()

	return func() {
		r.listenerMu.Lock()
		delete(r.listeners, id)
		r.listenerMu.Unlock()
	}
}

func (r *Registry) emit() {
	r.listenerMu.Lock()
	ids := make([]int, 0, len(r.listeners))
	for id := range r.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, r.listeners[id])
	}
	r.listenerMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

///////////////////////////////////////////////////////////////////////////////
// INSPECTION
///////////////////////////////////////////////////////////////////////////////

// Locales returns every locale code with a dictionary, in creation order.
// Internal variants are included with their "$" prefix.
func (r *Registry) Locales() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.store.order)
}

// Paths returns the paths defined for locale, in insertion order.
func (r *Registry) Paths(locale string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if d, ok := r.store.dicts[locale]; ok {
		return slices.Clone(d.paths)
	}
	return nil
}

// Lookup returns the template stored at path for exactly this locale code.
func (r *Registry) Lookup(locale, path string) (Template, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.lookup(locale, path)
}

// Tree returns the locale tree built from the configured locales.
func (r *Registry) Tree() *LocaleTree {
	return r.tree
}

// Fallback resolves requested locales against the configured locale tree.
func (r *Registry) Fallback(locales []string) []string {
	return Fallback(r.tree, locales)
}
