package linguist

import (
	"regexp"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// groupPattern matches a named capture "(name)" in a Find pattern.
var groupPattern = regexp.MustCompile(`\(([^)]+)\)`)

// FindResult is one template that may have produced a rendered text.
type FindResult struct {
	Locale string

	// Data maps each capture group name in the pattern to the path segment it
	// matched.
	Data       map[string]string
	Similarity float64
}

// FindOption configures Find and Compare.
type FindOption func(*findOptions)

type findOptions struct {
	minSimilarity *float64
}

// MinSimilarity overrides the registry default threshold for one call.
func MinSimilarity(v float64) FindOption {
	return func(o *findOptions) {
		o.minSimilarity = &v
	}
}

func (r *Registry) threshold(opts []FindOption) float64 {
	var o findOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.minSimilarity != nil {
		return *o.minSimilarity
	}
	return r.minSimilarity
}

// Compare returns 1 - levenshtein(expect, actual) / len(expect), measured in
// runes, or 0 when the value is below the threshold.
func (r *Registry) Compare(expect, actual string, opts ...FindOption) float64 {
	return compare(expect, actual, r.threshold(opts))
}

func compare(expect, actual string, threshold float64) float64 {
	n := utf8.RuneCountInString(expect)
	if n == 0 {
		return 0
	}
	value := 1 - float64(levenshtein.ComputeDistance(expect, actual))/float64(n)
	if value < threshold {
		return 0
	}
	return value
}

// Find scans every plain template whose path matches pattern and returns the
// ones similar enough to actual. Each "(name)" in pattern matches exactly one
// path segment and is reported in FindResult.Data; the rest of pattern is a
// regular expression anchored to the whole path. Results follow locale then
// path insertion order.
func (r *Registry) Find(pattern, actual string, opts ...FindOption) ([]FindResult, error) {
	if actual == "" {
		return nil, nil
	}

	var groups []string
	expr := groupPattern.ReplaceAllStringFunc(pattern, func(m string) string {
		groups = append(groups, groupPattern.FindStringSubmatch(m)[1])
		return `([^.]+)`
	})
	re, err := regexp.Compile("^" + expr + "$")
	if err != nil {
		return nil, err
	}
	threshold := r.threshold(opts)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var results []FindResult
	for _, locale := range r.store.order {
		d := r.store.dicts[locale]
		for _, path := range d.paths {
			capture := re.FindStringSubmatch(path)
			if capture == nil {
				continue
			}
			expect, ok := d.entries[path].(Plain)
			if !ok {
				continue
			}
			similarity := compare(string(expect), actual, threshold)
			if similarity <= 0 {
				continue
			}
			data := make(map[string]string, len(groups))
			for i, name := range groups {
				data[name] = capture[i+1]
			}
			results = append(results, FindResult{Locale: locale, Data: data, Similarity: similarity})
		}
	}
	return results, nil
}
