package linguist

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
)

///////////////////////////////////////////////////////////////////////////////
// INPUT NODES
///////////////////////////////////////////////////////////////////////////////

// Node is a value accepted by Define: either Text (a leaf template) or Dict
// (a nested dictionary). A nil Node means "absent" and deletes the path.
type Node interface {
	node()
}

// Text is a leaf template string.
type Text string

// Dict is a nested dictionary keyed by path segment.
type Dict map[string]Node

func (Text) node() {}
func (Dict) node() {}

// NodeOf converts decoded YAML/TOML/JSON data into a Node.
// Strings become Text, string-keyed maps become Dict, anything else is nil.
func NodeOf(v any) Node {
	switch t := v.(type) {
	case Node:
		return t
	case string:
		return Text(t)
	case map[string]any:
		d := make(Dict, len(t))
		for k, sub := range t {
			d[k] = NodeOf(sub)
		}
		return d
	case map[any]any:
		d := make(Dict, len(t))
		for k, sub := range t {
			d[fmt.Sprint(k)] = NodeOf(sub)
		}
		return d
	default:
		return nil
	}
}

// sortedKeys keeps flattening deterministic for map input.
func (d Dict) sortedKeys() []string {
	return slices.Sorted(maps.Keys(d))
}

///////////////////////////////////////////////////////////////////////////////
// STORED TEMPLATES
///////////////////////////////////////////////////////////////////////////////

// Template is what a locale dictionary stores at a path: Plain or Preset.
type Template interface {
	template()
	equal(other Template) bool
}

// Plain is a markup template handed to the Expander.
type Plain string

// Preset is a template rendered by a registered PresetFunc instead of the
// Expander. Text is set when the defined value was a string, Fields when it
// was a dictionary.
type Preset struct {
	Tag    string
	Text   string
	Fields Dict
}

func (Plain) template()   {}
func (*Preset) template() {}

func (p Plain) equal(other Template) bool {
	o, ok := other.(Plain)
	return ok && o == p
}

func (p *Preset) equal(other Template) bool {
	o, ok := other.(*Preset)
	if !ok {
		return false
	}
	return p.Tag == o.Tag && p.Text == o.Text && reflect.DeepEqual(p.Fields, o.Fields)
}

///////////////////////////////////////////////////////////////////////////////
// OUTPUT ELEMENTS
///////////////////////////////////////////////////////////////////////////////

// ElementKind distinguishes literal text from interpolated values.
type ElementKind int

const (
	// KindText is literal template text.
	KindText ElementKind = iota
	// KindValue is the output of a placeholder.
	KindValue
)

// Element is a single rendered output node.
type Element struct {
	Kind ElementKind
	Text string
	// Key is the placeholder path for KindValue elements.
	Key string
}

// TextElement builds a literal text element.
func TextElement(s string) Element {
	return Element{Kind: KindText, Text: s}
}

// Join concatenates the text of all elements.
func Join(elements []Element) string {
	var n int
	for _, e := range elements {
		n += len(e.Text)
	}
	buf := make([]byte, 0, n)
	for _, e := range elements {
		buf = append(buf, e.Text...)
	}
	return string(buf)
}
