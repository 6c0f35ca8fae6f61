package linguist

// Locale 是绑定了“语言链”的翻译入口
type Locale struct {
	registry *Registry
	langs    []string
}

// Locale returns a view bound to the given preference list. The list is
// resolved through the locale tree on every call, so later Define calls are
// visible.
func (r *Registry) Locale(langs ...string) *Locale {
	return &Locale{registry: r, langs: langs}
}

// Langs returns the resolved fallback chain of the view.
func (l *Locale) Langs() []string {
	return l.registry.Fallback(l.langs)
}

// T 翻译函数：T("commands.help.description", map[string]any{"name": "Tom"})
//
// Additional paths are tried in order when the first one is not defined.
// Rendering errors are logged and the first path is returned instead.
func (l *Locale) T(path string, args map[string]any, fallbacks ...string) string {
	if l.registry == nil {
		return path
	}
	paths := append([]string{path}, fallbacks...)
	elements, err := l.registry.Render(l.langs, paths, args)
	if err != nil {
		l.registry.logger.Error("render failed", "path", path, "locales", l.langs, "error", err)
		return path
	}
	return Join(elements)
}
