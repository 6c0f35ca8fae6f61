package linguist

import (
	"log/slog"
	"slices"
	"strings"
)

const (
	// InternalPrefix marks an internal variant of a locale ("$en-US"). Internal
	// dictionaries are consulted before their public counterpart and may be
	// redefined without an override warning.
	InternalPrefix = "$"

	// PresetSeparator splits a key path from its preset tag ("count@plural").
	//
	// Deprecated: register templates as Preset values instead.
	PresetSeparator = "@"

	pathSeparator = "."
)

// dictionary is a flat path -> template mapping that remembers insertion order.
type dictionary struct {
	paths   []string
	entries map[string]Template
}

func newDictionary() *dictionary {
	return &dictionary{entries: make(map[string]Template)}
}

func (d *dictionary) get(path string) (Template, bool) {
	t, ok := d.entries[path]
	return t, ok
}

func (d *dictionary) put(path string, t Template) {
	if _, ok := d.entries[path]; !ok {
		d.paths = append(d.paths, path)
	}
	d.entries[path] = t
}

func (d *dictionary) delete(path string) {
	if _, ok := d.entries[path]; !ok {
		return
	}
	delete(d.entries, path)
	if i := slices.Index(d.paths, path); i >= 0 {
		d.paths = slices.Delete(d.paths, i, i+1)
	}
}

// pathStore holds one dictionary per locale code. It does no locking; the
// Registry serialises access.
type pathStore struct {
	order  []string
	dicts  map[string]*dictionary
	logger *slog.Logger
}

func newPathStore(logger *slog.Logger) *pathStore {
	return &pathStore{
		dicts:  make(map[string]*dictionary),
		logger: logger,
	}
}

// dict returns the dictionary for locale, creating it on first use.
func (s *pathStore) dict(locale string) *dictionary {
	d, ok := s.dicts[locale]
	if !ok {
		d = newDictionary()
		s.dicts[locale] = d
		s.order = append(s.order, locale)
	}
	return d
}

func (s *pathStore) lookup(locale, path string) (Template, bool) {
	d, ok := s.dicts[locale]
	if !ok {
		return nil, false
	}
	return d.get(path)
}

// define writes value under prefix (which may be empty) and returns every
// concrete path it stored.
func (s *pathStore) define(locale, prefix string, value Node) []string {
	s.dict(locale)
	if prefix != "" {
		prefix += pathSeparator
	}
	return s.set(locale, prefix, value, nil)
}

// set walks value depth first. prefix always carries a trailing separator.
func (s *pathStore) set(locale, prefix string, value Node, touched []string) []string {
	if d, ok := value.(Dict); ok && !strings.Contains(prefix, PresetSeparator) {
		for _, key := range d.sortedKeys() {
			touched = s.set(locale, prefix+key+pathSeparator, d[key], touched)
		}
		return touched
	}

	dict := s.dict(locale)
	full := strings.TrimSuffix(prefix, pathSeparator)
	if value == nil {
		dict.delete(full)
		return touched
	}

	path, tag, _ := strings.Cut(full, PresetSeparator)

	var tpl Template
	switch v := value.(type) {
	case Text:
		if tag != "" {
			tpl = &Preset{Tag: tag, Text: string(v)}
		} else {
			tpl = Plain(v)
		}
	case Dict:
		tpl = &Preset{Tag: tag, Fields: v}
	default:
		dict.delete(full)
		return touched
	}
	if tag != "" {
		s.logger.Warn("preset is deprecated and will be removed in the future", "locale", locale, "path", path, "preset", tag)
	}

	if old, ok := dict.get(path); ok && !strings.HasPrefix(locale, InternalPrefix) && !old.equal(tpl) {
		s.logger.Warn("override", "locale", locale, "path", path)
	}
	dict.put(path, tpl)
	return append(touched, path)
}

// revert removes paths from the locale's dictionary.
func (s *pathStore) revert(locale string, paths []string) {
	d, ok := s.dicts[locale]
	if !ok {
		return
	}
	for _, path := range paths {
		d.delete(path)
	}
}
