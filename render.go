package linguist

import "fmt"

// Render resolves locales through the locale tree and renders the first
// defined template. Paths are tried in the given order and each path is tried
// in every resolved locale before the next path, so path priority beats locale
// priority. For each locale the internal variant ("$" + locale) is consulted
// before the locale itself.
//
// When nothing is defined a "missing" diagnostic is logged and the result is a
// single text element holding paths[0]. An error is returned only when the
// template cannot be rendered, e.g. its preset is not registered.
func (r *Registry) Render(locales, paths []string, params map[string]any) ([]Element, error) {
	resolved := r.Fallback(locales)

	r.mu.RLock()
	tpl, locale, ok := r.resolve(resolved, paths)
	var preset PresetFunc
	if p, isPreset := tpl.(*Preset); ok && isPreset {
		preset = r.presets[p.Tag]
	}
	r.mu.RUnlock()

	if !ok {
		var first string
		if len(paths) > 0 {
			first = paths[0]
		}
		r.logger.Warn("missing", "path", first, "locales", resolved)
		return []Element{TextElement(first)}, nil
	}

	switch t := tpl.(type) {
	case Plain:
		return r.expander.Expand(string(t), params)
	case *Preset:
		if preset == nil {
			return nil, fmt.Errorf("%w: %q", ErrPresetNotFound, t.Tag)
		}
		text, err := preset(t, params, locale)
		if err != nil {
			return nil, fmt.Errorf("preset %q: %w", t.Tag, err)
		}
		return []Element{TextElement(text)}, nil
	default:
		panic(fmt.Sprintf("linguist: unexpected template type %T", tpl))
	}
}

// resolve walks path x locale x {internal, plain} and returns the first hit
// together with the unprefixed locale it was found for. Caller holds r.mu.
func (r *Registry) resolve(locales, paths []string) (Template, string, bool) {
	for _, path := range paths {
		for _, locale := range locales {
			for _, key := range [2]string{InternalPrefix + locale, locale} {
				tpl, ok := r.store.lookup(key, path)
				if !ok {
					continue
				}
				// the root entry ("", "") only answers for the empty path
				if p, isPlain := tpl.(Plain); isPlain && p == "" && locale == "" && path != "" {
					continue
				}
				return tpl, locale, true
			}
		}
	}
	return nil, "", false
}

// Text renders and joins the result into a plain string.
//
// Deprecated: use Render and keep the elements.
func (r *Registry) Text(locales, paths []string, params map[string]any) (string, error) {
	elements, err := r.Render(locales, paths, params)
	if err != nil {
		return "", err
	}
	return Join(elements), nil
}
