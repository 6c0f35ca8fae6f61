package checker

import (
	"slices"
	"sort"
	"strings"

	"github.com/lifei6671/linguist"
)

type Result struct {
	Languages     []string
	Reference     string
	MissingKeys   map[string][]string
	RedundantKeys map[string][]string
	SyntaxErrors  map[string]map[string]error // lang -> key -> err
	Presets       map[string][]string         // lang -> keys defined with a preset tag
	AllKeys       []string
}

// CheckLocales performs:
//  1. key alignment check against ref (missing / redundant); with an empty ref
//     every locale is checked against the union of all keys
//  2. template syntax check via linguist.ValidateTemplate()
func CheckLocales(dir, ref string) (*Result, error) {
	reg, err := linguist.New(linguist.WithoutBundled())
	if err != nil {
		return nil, err
	}
	if _, err := reg.LoadDir(dir); err != nil {
		return nil, err
	}
	return Check(reg, ref), nil
}

// Check inspects every locale dictionary of reg except the root locale.
func Check(reg *linguist.Registry, ref string) *Result {
	langKeys := make(map[string]map[string]struct{})
	allKeysSet := make(map[string]struct{})
	presets := make(map[string][]string)
	syntaxErrors := make(map[string]map[string]error)

	for _, lang := range reg.Locales() {
		if lang == "" {
			continue
		}
		kset := make(map[string]struct{})
		for _, key := range reg.Paths(lang) {
			kset[key] = struct{}{}
			allKeysSet[key] = struct{}{}

			tpl, _ := reg.Lookup(lang, key)
			switch t := tpl.(type) {
			case *linguist.Preset:
				presets[lang] = append(presets[lang], key)
			case linguist.Plain:
				if err := linguist.ValidateTemplate(string(t)); err != nil {
					if syntaxErrors[lang] == nil {
						syntaxErrors[lang] = make(map[string]error)
					}
					syntaxErrors[lang][key] = err
				}
			}
		}
		langKeys[lang] = kset
	}

	allKeys := sortedKeys(allKeysSet)
	expected := allKeysSet
	if refKeys, ok := langKeys[ref]; ok {
		expected = refKeys
	}

	missing := make(map[string][]string)
	redundant := make(map[string][]string)

	for lang, kset := range langKeys {
		// internal dictionaries only override selected keys
		if strings.HasPrefix(lang, linguist.InternalPrefix) {
			continue
		}
		for _, k := range sortedKeys(expected) {
			if _, ok := kset[k]; !ok {
				missing[lang] = append(missing[lang], k)
			}
		}
		for _, k := range sortedKeys(kset) {
			if _, ok := expected[k]; !ok {
				redundant[lang] = append(redundant[lang], k)
			}
		}
	}

	langs := make([]string, 0, len(langKeys))
	for l := range langKeys {
		langs = append(langs, l)
	}
	sort.Strings(langs)

	return &Result{
		Languages:     langs,
		Reference:     ref,
		MissingKeys:   missing,
		RedundantKeys: redundant,
		SyntaxErrors:  syntaxErrors,
		Presets:       presets,
		AllKeys:       allKeys,
	}
}

// HasIssues reports whether any locale has missing, redundant or invalid keys.
func (r *Result) HasIssues() bool {
	for _, arr := range r.MissingKeys {
		if len(arr) > 0 {
			return true
		}
	}
	for _, arr := range r.RedundantKeys {
		if len(arr) > 0 {
			return true
		}
	}
	for _, errs := range r.SyntaxErrors {
		if len(errs) > 0 {
			return true
		}
	}
	return false
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
