package linguist

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

///////////////////////////////////////////////////////////////////////////////
// FORMATTER REGISTRY
///////////////////////////////////////////////////////////////////////////////

// FormatterFunc transforms a placeholder value: {price | number:2}.
type FormatterFunc func(input any, arg string) (any, error)

// RegisterFormatter registers or replaces a formatter on this expander.
func (x *TemplateExpander) RegisterFormatter(name string, f FormatterFunc) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.formatters[name] = f
}

func (x *TemplateExpander) formatter(name string) (FormatterFunc, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	f, ok := x.formatters[name]
	return f, ok
}

// applyFormatter applies a formatter by name.
func (x *TemplateExpander) applyFormatter(v any, name, arg string) (any, error) {
	f, ok := x.formatter(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormatter, name)
	}
	return f(v, arg)
}

///////////////////////////////////////////////////////////////////////////////
// BUILT-IN FORMATTERS
///////////////////////////////////////////////////////////////////////////////

func (x *TemplateExpander) registerBuiltins() {
	x.formatters["upper"] = func(v any, _ string) (any, error) {
		return strings.ToUpper(fmt.Sprint(v)), nil
	}
	x.formatters["lower"] = func(v any, _ string) (any, error) {
		return strings.ToLower(fmt.Sprint(v)), nil
	}
	x.formatters["title"] = func(v any, arg string) (any, error) {
		tag := language.Und
		if arg != "" {
			t, err := language.Parse(arg)
			if err != nil {
				return nil, fmt.Errorf("title formatter: %w", err)
			}
			tag = t
		}
		return cases.Title(tag).String(fmt.Sprint(v)), nil
	}
	x.formatters["number"] = func(v any, arg string) (any, error) {
		return formatNumber(v, arg)
	}
	x.formatters["currency"] = func(v any, arg string) (any, error) {
		return formatCurrency(v, arg)
	}
	x.formatters["date"] = func(v any, arg string) (any, error) {
		return formatDate(v, arg)
	}
}

func formatDate(v any, layout string) (string, error) {
	if layout == "" {
		layout = "2006-01-02"
	}
	switch t := v.(type) {
	case time.Time:
		return t.Format(layout), nil
	case *time.Time:
		return t.Format(layout), nil
	case string:
		tt, err := time.Parse(time.RFC3339, t)
		if err != nil {
			return "", err
		}
		return tt.Format(layout), nil
	default:
		return "", fmt.Errorf("not a time: %v", v)
	}
}

// toFloat accepts Go numbers and numeric strings with thousands separators.
func toFloat(v any, trim ...string) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case float32:
		return float64(n), nil
	case float64:
		return n, nil
	case string:
		s := strings.TrimSpace(n)
		for _, p := range trim {
			s = strings.TrimPrefix(s, p)
		}
		s = strings.ReplaceAll(s, ",", "")
		return strconv.ParseFloat(s, 64)
	default:
		return 0, fmt.Errorf("numeric or numeric-string type required, got %T", v)
	}
}

func formatNumber(v any, precision string) (string, error) {
	f, err := toFloat(v)
	if err != nil {
		return "", fmt.Errorf("number formatter: %w", err)
	}

	p := 0
	if precision != "" {
		pi, err := strconv.Atoi(precision)
		if err != nil {
			return "", fmt.Errorf("number formatter: invalid precision %q", precision)
		}
		p = pi
	}

	return addThousandsSep(strconv.FormatFloat(f, 'f', p, 64)), nil
}

func formatCurrency(v any, arg string) (string, error) {
	symbol := "$"
	if arg != "" {
		symbol = arg
	}

	f, err := toFloat(v, "$", "¥", "€", "£", symbol)
	if err != nil {
		return "", fmt.Errorf("currency formatter: %w", err)
	}
	return symbol + addThousandsSep(strconv.FormatFloat(f, 'f', 2, 64)), nil
}

func addThousandsSep(s string) string {
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")

	var buf bytes.Buffer
	for i, c := range intPart {
		if i != 0 && (len(intPart)-i)%3 == 0 {
			buf.WriteRune(',')
		}
		buf.WriteRune(c)
	}

	if hasFrac {
		buf.WriteRune('.')
		buf.WriteString(frac)
	}

	if neg {
		return "-" + buf.String()
	}
	return buf.String()
}

///////////////////////////////////////////////////////////////////////////////
// CONDITIONALS
///////////////////////////////////////////////////////////////////////////////

func compareValues(v any, op string, test string) (bool, error) {
	switch vv := v.(type) {
	case int, int32, int64, uint, uint64, float64, float32:
		return compareNumbers(vv, op, test)
	case string:
		switch op {
		case "eq":
			return vv == test, nil
		default:
			return false, fmt.Errorf("unsupported string op: %s", op)
		}
	default:
		return false, fmt.Errorf("unsupported type for compare: %T", v)
	}
}

func compareNumbers(v any, op, test string) (bool, error) {
	lv, err := toFloat(v)
	if err != nil {
		return false, err
	}
	rv, err := strconv.ParseFloat(test, 64)
	if err != nil {
		return false, err
	}

	switch op {
	case "eq":
		return lv == rv, nil
	case "gt":
		return lv > rv, nil
	case "lt":
		return lv < rv, nil
	default:
		return false, fmt.Errorf("unknown op: %s", op)
	}
}
