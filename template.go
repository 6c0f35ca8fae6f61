package linguist

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// Expander turns a plain template and its parameters into output elements.
type Expander interface {
	Expand(tpl string, params map[string]any) ([]Element, error)
}

///////////////////////////////////////////////////////////////////////////////
// AST DEFINITIONS
///////////////////////////////////////////////////////////////////////////////

// ASTNode is the interface for all parsed template nodes.
type ASTNode interface {
	// Eval evaluates the node with given args and returns one output element.
	Eval(x *TemplateExpander, args map[string]any) (Element, error)
}

// TextNode represents a static text segment.
type TextNode struct {
	Text string
}

func (t *TextNode) Eval(_ *TemplateExpander, _ map[string]any) (Element, error) {
	return TextElement(t.Text), nil
}

// Formatter represents a single formatter in the chain.
type Formatter struct {
	Name string
	Arg  string
}

// Conditional represents a ternary condition chain inside a placeholder.
type Conditional struct {
	Op        string // "eq", "gt", "lt"
	TestValue string
	TrueExpr  string
	FalseExpr string
}

// PlaceholderNode represents: {path | formatter:arg | ...}
type PlaceholderNode struct {
	Path       string
	Formatters []Formatter
	Cond       *Conditional // optional
}

// Eval resolves the placeholder. A parameter that is not supplied renders as
// empty text.
func (p *PlaceholderNode) Eval(x *TemplateExpander, args map[string]any) (Element, error) {
	out := Element{Kind: KindValue, Key: p.Path}

	value, ok := getValueByPath(args, p.Path)
	if !ok {
		return out, nil
	}

	var err error
	for _, f := range p.Formatters {
		value, err = x.applyFormatter(value, f.Name, f.Arg)
		if err != nil {
			return out, err
		}
	}

	if p.Cond != nil {
		ok, err := compareValues(value, p.Cond.Op, p.Cond.TestValue)
		if err != nil {
			return out, err
		}
		branch := p.Cond.FalseExpr
		if ok {
			branch = p.Cond.TrueExpr
		}
		elements, err := x.Expand(branch, args)
		if err != nil {
			return out, err
		}
		out.Text = Join(elements)
		return out, nil
	}

	out.Text = fmt.Sprint(value)
	return out, nil
}

// TemplateAST is a whole parsed template.
type TemplateAST []ASTNode

func (t TemplateAST) Eval(x *TemplateExpander, args map[string]any) ([]Element, error) {
	elements := make([]Element, 0, len(t))
	for _, node := range t {
		e, err := node.Eval(x, args)
		if err != nil {
			return nil, err
		}
		elements = append(elements, e)
	}
	return elements, nil
}

///////////////////////////////////////////////////////////////////////////////
// EXPANDER
///////////////////////////////////////////////////////////////////////////////

// TemplateExpander is the default Expander. Parsed templates are cached, so a
// template is parsed once per expander.
type TemplateExpander struct {
	mu         sync.RWMutex
	formatters map[string]FormatterFunc

	cacheMu sync.RWMutex
	cache   map[string]TemplateAST
}

// NewTemplateExpander returns an expander with the built-in formatters
// (upper, lower, title, number, currency, date) registered.
func NewTemplateExpander() *TemplateExpander {
	x := &TemplateExpander{
		formatters: map[string]FormatterFunc{},
		cache:      map[string]TemplateAST{},
	}
	x.registerBuiltins()
	return x
}

var defaultExpander = NewTemplateExpander()

// Expand implements Expander.
func (x *TemplateExpander) Expand(tpl string, params map[string]any) ([]Element, error) {
	x.cacheMu.RLock()
	ast, ok := x.cache[tpl]
	x.cacheMu.RUnlock()

	if !ok {
		var err error
		ast, err = ParseTemplate(tpl)
		if err != nil {
			return nil, err
		}
		x.cacheMu.Lock()
		x.cache[tpl] = ast
		x.cacheMu.Unlock()
	}

	return ast.Eval(x, params)
}

// RenderTemplate expands tpl with the default expander and joins the result.
func RenderTemplate(tpl string, args map[string]any) (string, error) {
	elements, err := defaultExpander.Expand(tpl, args)
	if err != nil {
		return tpl, err
	}
	return Join(elements), nil
}

///////////////////////////////////////////////////////////////////////////////
// TEMPLATE PARSER
///////////////////////////////////////////////////////////////////////////////

// ParseTemplate parses tpl string into an AST (TemplateAST).
// Nested `{}` inside a placeholder are supported; an unclosed '{' is kept as
// plain text.
func ParseTemplate(tpl string) (TemplateAST, error) {
	runes := []rune(tpl)
	n := len(runes)

	var nodes TemplateAST
	var buf bytes.Buffer

	flush := func() {
		if buf.Len() > 0 {
			nodes = append(nodes, &TextNode{Text: buf.String()})
			buf.Reset()
		}
	}

	i := 0
	for i < n {
		if runes[i] != '{' {
			buf.WriteRune(runes[i])
			i++
			continue
		}

		start := i
		depth := 1
		j := i + 1
		for j < n && depth > 0 {
			switch runes[j] {
			case '{':
				depth++
			case '}':
				depth--
			}
			j++
		}

		if depth != 0 {
			// 没有找到配对的 '}'，把这个 '{' 当普通字符输出
			buf.WriteRune(runes[start])
			i = start + 1
			continue
		}

		// j 指向匹配的 '}' 的下一个位置
		raw := string(runes[start+1 : j-1])
		i = j

		ph, err := parsePlaceholder(raw)
		if err != nil {
			buf.WriteString("{" + raw + "}")
			continue
		}

		flush()
		nodes = append(nodes, ph)
	}
	flush()

	return nodes, nil
}

// parsePlaceholder parses the expression inside `{ ... }`.
func parsePlaceholder(expr string) (*PlaceholderNode, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, errors.New("empty placeholder expression")
	}

	parts := strings.Split(expr, "|")
	ph := &PlaceholderNode{
		Path: strings.TrimSpace(parts[0]),
	}

	for _, part := range parts[1:] {
		seg := strings.TrimSpace(part)
		if seg == "" {
			return nil, fmt.Errorf("empty formatter segment")
		}

		if strings.Contains(seg, "?") {
			cond, err := parseConditional(seg)
			if err != nil {
				return nil, err
			}
			ph.Cond = cond
			continue
		}

		name, arg := parseFormatterSegment(seg)
		if name == "" {
			return nil, fmt.Errorf("empty formatter name in segment %q", seg)
		}
		ph.Formatters = append(ph.Formatters, Formatter{Name: name, Arg: arg})
	}

	return ph, nil
}

// parseFormatterSegment parses "number:2" etc.
func parseFormatterSegment(seg string) (name, arg string) {
	name, arg, _ = strings.Cut(seg, ":")
	return strings.TrimSpace(name), strings.TrimSpace(arg)
}

// parseConditional parses "eq:0?A:B".
func parseConditional(expr string) (*Conditional, error) {
	condPart, trueFalse, ok := strings.Cut(expr, "?")
	if !ok {
		return nil, fmt.Errorf("invalid conditional: %s", expr)
	}
	trueExpr, falseExpr, ok := strings.Cut(trueFalse, ":")
	if !ok {
		return nil, fmt.Errorf("invalid conditional: %s", expr)
	}
	op, test, ok := strings.Cut(condPart, ":")
	if !ok {
		return nil, fmt.Errorf("invalid condition: %s", condPart)
	}

	return &Conditional{
		Op:        strings.TrimSpace(op),
		TestValue: strings.TrimSpace(test),
		TrueExpr:  strings.TrimSpace(trueExpr),
		FalseExpr: strings.TrimSpace(falseExpr),
	}, nil
}

// getValueByPath resolves "user.name" against nested maps and structs.
func getValueByPath(args map[string]any, path string) (any, bool) {
	var current any = args

	for _, seg := range strings.Split(path, ".") {
		switch c := current.(type) {
		case map[string]any:
			v, ok := c[seg]
			if !ok {
				return nil, false
			}
			current = v
		case map[string]string:
			v, ok := c[seg]
			if !ok {
				return nil, false
			}
			current = v
		default:
			r := reflect.ValueOf(c)
			if r.Kind() == reflect.Ptr {
				r = r.Elem()
			}
			if r.Kind() != reflect.Struct {
				return nil, false
			}
			f := r.FieldByNameFunc(func(name string) bool {
				return strings.EqualFold(name, seg)
			})
			if !f.IsValid() || !f.CanInterface() {
				return nil, false
			}
			current = f.Interface()
		}
	}
	return current, true
}

///////////////////////////////////////////////////////////////////////////////
// VALIDATION
///////////////////////////////////////////////////////////////////////////////

// ValidateTemplate validates tpl against the built-in formatters.
func ValidateTemplate(tpl string) error {
	return defaultExpander.Validate(tpl)
}

// Validate does a strict validation for linting purpose:
//  1. checks brace balance
//  2. parses into AST
//  3. checks formatter existence and basic arguments
func (x *TemplateExpander) Validate(tpl string) error {
	if err := checkBraces(tpl); err != nil {
		return err
	}

	ast, err := ParseTemplate(tpl)
	if err != nil {
		return err
	}

	for _, node := range ast {
		ph, ok := node.(*PlaceholderNode)
		if !ok {
			continue
		}

		if ph.Path == "" {
			return fmt.Errorf("placeholder has empty path")
		}

		for _, f := range ph.Formatters {
			if _, exists := x.formatter(f.Name); !exists {
				return fmt.Errorf("%w: %s", ErrUnknownFormatter, f.Name)
			}
			if f.Name == "number" && f.Arg != "" {
				if _, err := formatNumber(0, f.Arg); err != nil {
					return fmt.Errorf("invalid precision for number formatter: %q", f.Arg)
				}
			}
		}

		if ph.Cond != nil {
			switch ph.Cond.Op {
			case "eq", "gt", "lt":
			default:
				return fmt.Errorf("unknown conditional operator: %s", ph.Cond.Op)
			}
			if ph.Cond.TrueExpr == "" || ph.Cond.FalseExpr == "" {
				return fmt.Errorf("invalid conditional expression: true/false branch must not be empty")
			}
		}
	}

	return nil
}

// checkBraces checks that all '{' and '}' are balanced at the template level.
func checkBraces(tpl string) error {
	depth := 0
	firstOpen := -1

	for i, r := range []rune(tpl) {
		switch r {
		case '{':
			if depth == 0 {
				firstOpen = i
			}
			depth++
		case '}':
			if depth == 0 {
				return fmt.Errorf("extra closing '}' at position %d", i)
			}
			depth--
		}
	}

	if depth != 0 && firstOpen >= 0 {
		return fmt.Errorf("unclosed placeholder starting at position %d", firstOpen)
	}
	return nil
}
