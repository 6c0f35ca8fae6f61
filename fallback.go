package linguist

import (
	"slices"
	"strings"

	"golang.org/x/text/language"
)

// LocaleTree records parent -> children relationships between the configured
// locales: "en-US" and "en-GB" hang below "en", which hangs below the root "".
// It is built once and read-only afterwards.
type LocaleTree struct {
	configured []string
	parent     map[string]string
	children   map[string][]string
}

// NewLocaleTree builds a tree from a configured list of locale codes. Codes are
// opaque: they are kept as given and matched byte for byte against the codes
// passed to Define. Ancestors are derived by dropping "-" separated subtags.
func NewLocaleTree(codes []string) *LocaleTree {
	t := &LocaleTree{
		parent:   map[string]string{},
		children: map[string][]string{},
	}
	for _, code := range codes {
		if code == "" || slices.Contains(t.configured, code) {
			continue
		}
		t.configured = append(t.configured, code)
		t.insert(code)
	}
	return t
}

func (t *LocaleTree) insert(code string) {
	for code != "" {
		if _, ok := t.parent[code]; ok {
			return
		}
		p := parentLocale(code)
		t.parent[code] = p
		t.children[p] = append(t.children[p], code)
		code = p
	}
}

// Has reports whether code is a node of the tree. The root "" always is.
func (t *LocaleTree) Has(code string) bool {
	if code == "" {
		return true
	}
	_, ok := t.parent[code]
	return ok
}

// Ancestors returns the chain from code's parent up to, but excluding, the root.
func (t *LocaleTree) Ancestors(code string) []string {
	var out []string
	for p, ok := t.parent[code]; ok && p != ""; p, ok = t.parent[p] {
		out = append(out, p)
	}
	return out
}

// Children returns the direct children of code.
func (t *LocaleTree) Children(code string) []string {
	return slices.Clone(t.children[code])
}

// Defaults returns the configured locales in fallback order.
func (t *LocaleTree) Defaults() []string {
	return slices.Clone(t.configured)
}

// Fallback resolves requested locales against the tree.
func (t *LocaleTree) Fallback(requested []string) []string {
	return Fallback(t, requested)
}

// Fallback turns a ranked list of requested locales into the ordered,
// deduplicated candidate list the renderer walks:
//
//   - each requested locale found in the tree, followed by its ancestors;
//   - for a requested locale unknown to the tree, its nearest known ancestors;
//   - then every configured locale with its ancestors, in configured order;
//   - finally the root locale "".
func Fallback(tree *LocaleTree, requested []string) []string {
	var out []string
	add := func(code string) {
		if !slices.Contains(out, code) {
			out = append(out, code)
		}
	}
	chain := func(code string) {
		add(code)
		for _, a := range tree.Ancestors(code) {
			add(a)
		}
	}

	for _, code := range requested {
		if code == "" {
			continue
		}
		if tree.Has(code) {
			chain(code)
			continue
		}
		for p := parentLocale(code); p != ""; p = parentLocale(p) {
			if tree.Has(p) {
				chain(p)
				break
			}
		}
	}
	for _, code := range tree.configured {
		chain(code)
	}
	add("")
	return out
}

// WellFormedLocale reports whether code, without its internal prefix, is a
// well-formed BCP 47 tag in canonical form. Other codes still work; the
// registry only logs them.
func WellFormedLocale(code string) bool {
	code = strings.TrimPrefix(code, InternalPrefix)
	if code == "" {
		return true
	}
	tag, err := language.Parse(code)
	return err == nil && tag.String() == code
}

// parentLocale drops the last subtag: "zh-Hant-TW" -> "zh-Hant" -> "zh" -> "".
func parentLocale(code string) string {
	if i := strings.LastIndex(code, "-"); i > 0 {
		return code[:i]
	}
	return ""
}
