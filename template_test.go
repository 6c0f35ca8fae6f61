package linguist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Order struct {
	Count int
}

func TestParsePlaceholder(t *testing.T) {
	t.Run("ParsePlaceholder_Success", func(t *testing.T) {
		ph, err := parsePlaceholder("order.price|number:2")
		require.NoError(t, err)
		assert.Equal(t, "order.price", ph.Path)
		assert.Equal(t, []Formatter{{Name: "number", Arg: "2"}}, ph.Formatters)
	})
	t.Run("ParsePlaceholder_Conditional", func(t *testing.T) {
		ph, err := parsePlaceholder(" count | eq:0?No items:{count} items")
		require.NoError(t, err)
		assert.Equal(t, &Conditional{Op: "eq", TestValue: "0", TrueExpr: "No items", FalseExpr: "{count} items"}, ph.Cond)
	})
	t.Run("ParsePlaceholder_Fail", func(t *testing.T) {
		_, err := parsePlaceholder("  ")
		assert.Error(t, err)
		_, err = parsePlaceholder("name | | upper")
		assert.Error(t, err)
		_, err = parsePlaceholder("count | eq0?a:b")
		assert.Error(t, err)
	})
}

func TestParseTemplate(t *testing.T) {
	ast, err := ParseTemplate("a {b} {unclosed")
	require.NoError(t, err)
	require.Len(t, ast, 3)
	assert.Equal(t, &TextNode{Text: "a "}, ast[0])
	assert.Equal(t, &PlaceholderNode{Path: "b"}, ast[1])
	assert.Equal(t, &TextNode{Text: " {unclosed"}, ast[2])

	ast, err = ParseTemplate("{} x")
	require.NoError(t, err)
	assert.Equal(t, TemplateAST{&TextNode{Text: "{} x"}}, ast)
}

func TestTemplateExpander_Expand(t *testing.T) {
	x := NewTemplateExpander()

	t.Run("Expand_Formatters", func(t *testing.T) {
		created := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
		out, err := RenderTemplate(
			"User {user.name | upper}, price {order.price | number:2 | currency:¥}, items {count | eq:0?No items:{count} items}, created {order.created_at | date:2006/01/02}",
			map[string]any{
				"user": map[string]any{"name": "咸鱼"},
				"order": map[string]any{
					"price":      12345.678,
					"created_at": created,
				},
				"count": 5,
			},
		)
		require.NoError(t, err)
		assert.Equal(t, "User 咸鱼, price ¥12,345.68, items 5 items, created 2024/03/09", out)
	})

	t.Run("Expand_ConditionalTrueBranch", func(t *testing.T) {
		elements, err := x.Expand("{count | eq:0?No items:{count} items}", map[string]any{"count": 0})
		require.NoError(t, err)
		assert.Equal(t, []Element{{Kind: KindValue, Text: "No items", Key: "count"}}, elements)
	})

	t.Run("Expand_StructField", func(t *testing.T) {
		elements, err := x.Expand("{order.count} orders", map[string]any{"order": &Order{Count: 10}})
		require.NoError(t, err)
		assert.Equal(t, "10 orders", Join(elements))
	})

	t.Run("Expand_MissingParamIsEmpty", func(t *testing.T) {
		elements, err := x.Expand("hello {name}", nil)
		require.NoError(t, err)
		assert.Equal(t, "hello ", Join(elements))
	})

	t.Run("Expand_Title", func(t *testing.T) {
		elements, err := x.Expand("{name | title}", map[string]any{"name": "ada lovelace"})
		require.NoError(t, err)
		assert.Equal(t, "Ada Lovelace", Join(elements))
	})

	t.Run("Expand_UnknownFormatter", func(t *testing.T) {
		_, err := x.Expand("{name | shout}", map[string]any{"name": "x"})
		assert.ErrorIs(t, err, ErrUnknownFormatter)
	})

	t.Run("Expand_CustomFormatter", func(t *testing.T) {
		y := NewTemplateExpander()
		y.RegisterFormatter("shout", func(v any, arg string) (any, error) {
			return Join([]Element{TextElement(v.(string)), TextElement(arg)}), nil
		})
		elements, err := y.Expand("{name | shout:!!}", map[string]any{"name": "hey"})
		require.NoError(t, err)
		assert.Equal(t, "hey!!", Join(elements))
	})
}

func TestValidateTemplate(t *testing.T) {
	tests := []struct {
		tpl     string
		wantErr bool
	}{
		{"plain text", false},
		{"{name | upper}", false},
		{"{count | eq:0?none:some}", false},
		{"{price | number:x}", true},
		{"{name | shout}", true},
		{"{count | ne:0?a:b}", true},
		{"unclosed {name", true},
		{"extra }", true},
	}
	for _, tt := range tests {
		t.Run(tt.tpl, func(t *testing.T) {
			err := ValidateTemplate(tt.tpl)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
