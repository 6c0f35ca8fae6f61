package linguist_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifei6671/linguist"
)

func TestRegistry_Render(t *testing.T) {
	t.Run("Render_PathPriorityBeatsLocale", func(t *testing.T) {
		reg, _ := newRegistry(t, linguist.WithLocales("en-US", "fr-FR"))
		reg.DefineKey("fr-FR", "p1", linguist.Text("from fr p1"))
		reg.DefineKey("en-US", "p2", linguist.Text("from en p2"))

		out, err := reg.Text([]string{"en-US"}, []string{"p1", "p2"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "from fr p1", out)
	})

	t.Run("Render_LocaleOrderWithinPath", func(t *testing.T) {
		reg, _ := newRegistry(t, linguist.WithLocales("zh-CN", "en-US"))
		reg.DefineKey("zh-CN", "greet", linguist.Text("你好"))
		reg.DefineKey("en", "greet", linguist.Text("hello"))

		out, err := reg.Text([]string{"en-US"}, []string{"greet"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "hello", out)

		out, err = reg.Text(nil, []string{"greet"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "你好", out)
	})

	t.Run("Render_InternalVariantFirst", func(t *testing.T) {
		reg, _ := newRegistry(t, linguist.WithLocales("en-US"))
		reg.DefineKey("en-US", "greet", linguist.Text("public"))
		reg.DefineKey("$en-US", "greet", linguist.Text("internal"))

		out, err := reg.Text([]string{"en-US"}, []string{"greet"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "internal", out)
	})

	t.Run("Render_NonCanonicalCode", func(t *testing.T) {
		reg, _ := newRegistry(t, linguist.WithLocales("en-us"))
		reg.DefineKey("en-us", "greet", linguist.Text("hi"))

		out, err := reg.Text([]string{"en-us"}, []string{"greet"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "hi", out)

		reg, _ = newRegistry(t, linguist.WithLocales("iw"))
		reg.DefineKey("iw", "greet", linguist.Text("shalom"))

		out, err = reg.Text([]string{"iw"}, []string{"greet"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "shalom", out)
	})

	t.Run("Render_CustomCode", func(t *testing.T) {
		reg, _ := newRegistry(t, linguist.WithLocales("en-US", "klingon"))
		reg.DefineKey("klingon", "greet", linguist.Text("nuqneH"))

		out, err := reg.Text([]string{"klingon"}, []string{"greet"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "nuqneH", out)

		out, err = reg.Text(nil, []string{"greet"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "nuqneH", out)
	})

	t.Run("Render_Params", func(t *testing.T) {
		reg, _ := newRegistry(t, linguist.WithLocales("en-US"))
		reg.DefineKey("en-US", "greet", linguist.Text("Hello, {name | upper}!"))

		elements, err := reg.Render([]string{"en-US"}, []string{"greet"}, map[string]any{"name": "alice"})
		require.NoError(t, err)
		assert.Equal(t, []linguist.Element{
			{Kind: linguist.KindText, Text: "Hello, "},
			{Kind: linguist.KindValue, Text: "ALICE", Key: "name"},
			{Kind: linguist.KindText, Text: "!"},
		}, elements)
	})

	t.Run("Render_DeletedFallsThrough", func(t *testing.T) {
		reg, _ := newRegistry(t, linguist.WithLocales("en-US"))
		reg.DefineKey("en-US", "a.b", linguist.Text("specific"))
		reg.DefineKey("en-US", "a.c", linguist.Text("general"))
		reg.DefineKey("en-US", "a.b", nil)

		out, err := reg.Text([]string{"en-US"}, []string{"a.b", "a.c"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "general", out)
	})

	t.Run("Render_Missing", func(t *testing.T) {
		reg, rec := newRegistry(t)

		elements, err := reg.Render([]string{"en-US"}, []string{"no.such.key", "other"}, nil)
		require.NoError(t, err)
		require.Len(t, elements, 1)
		assert.Equal(t, linguist.TextElement("no.such.key"), elements[0])
		assert.Equal(t, 1, rec.count("missing"))
		assert.Equal(t, "no.such.key", rec.attr("missing", "path"))
	})

	t.Run("Render_RootEmptyOnlyForEmptyPath", func(t *testing.T) {
		reg, _ := newRegistry(t)
		reg.DefineKey("", "blank", linguist.Text(""))

		out, err := reg.Text(nil, []string{"blank"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "blank", out, "empty root template does not answer a non-empty path")

		elements, err := reg.Render(nil, []string{""}, nil)
		require.NoError(t, err)
		assert.Empty(t, linguist.Join(elements))
	})

	t.Run("Render_EmptyTemplateInRealLocale", func(t *testing.T) {
		reg, _ := newRegistry(t, linguist.WithLocales("en-US"))
		reg.DefineKey("en-US", "blank", linguist.Text(""))

		elements, err := reg.Render([]string{"en-US"}, []string{"blank"}, nil)
		require.NoError(t, err)
		assert.Empty(t, elements)
	})
}

func TestRegistry_RenderPreset(t *testing.T) {
	reg, _ := newRegistry(t, linguist.WithLocales("en-US", "fr-FR"))
	reg.Define("fr-FR", linguist.Dict{
		"items@plural": linguist.Dict{
			"one":   linguist.Text("{count} élément"),
			"other": linguist.Text("{count} éléments"),
		},
	})

	t.Run("RenderPreset_NotRegistered", func(t *testing.T) {
		_, err := reg.Render([]string{"fr-FR"}, []string{"items"}, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, linguist.ErrPresetNotFound))
		assert.Contains(t, err.Error(), `"plural"`)
	})

	t.Run("RenderPreset_Registered", func(t *testing.T) {
		var gotLocale string
		reg.RegisterPreset("plural", func(p *linguist.Preset, params map[string]any, locale string) (string, error) {
			gotLocale = locale
			form := "other"
			if params["count"] == 1 {
				form = "one"
			}
			tpl := string(p.Fields[form].(linguist.Text))
			return strings.ReplaceAll(tpl, "{count}", fmt.Sprint(params["count"])), nil
		})

		elements, err := reg.Render([]string{"en-US"}, []string{"items"}, map[string]any{"count": 3})
		require.NoError(t, err)
		assert.Equal(t, []linguist.Element{linguist.TextElement("3 éléments")}, elements)
		assert.Equal(t, "fr-FR", gotLocale)
	})

	t.Run("RenderPreset_LastRegistrationWins", func(t *testing.T) {
		reg.RegisterPreset("plural", func(*linguist.Preset, map[string]any, string) (string, error) {
			return "replaced", nil
		})
		out, err := reg.Text([]string{"fr-FR"}, []string{"items"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "replaced", out)
	})

	t.Run("RenderPreset_ErrorPropagates", func(t *testing.T) {
		boom := errors.New("boom")
		reg.RegisterPreset("plural", func(*linguist.Preset, map[string]any, string) (string, error) {
			return "", boom
		})
		_, err := reg.Render([]string{"fr-FR"}, []string{"items"}, nil)
		assert.ErrorIs(t, err, boom)
	})
}

func TestLocale_T(t *testing.T) {
	reg, rec := newRegistry(t, linguist.WithLocales("zh-CN", "en-US"))
	reg.Define("en-US", linguist.Dict{
		"user": linguist.Dict{"login": linguist.Dict{"success": linguist.Text("Welcome back, {name}")}},
	})
	reg.DefineKey("en-US", "broken@missing", linguist.Text("x"))

	l := reg.Locale("en-US")
	assert.Equal(t, []string{"en-US", "en", "zh-CN", "zh", ""}, l.Langs())
	assert.Equal(t, "Welcome back, Tom", l.T("user.login.success", map[string]any{"name": "Tom"}))
	assert.Equal(t, "Welcome back, Tom", l.T("user.login.greeting", map[string]any{"name": "Tom"}, "user.login.success"))
	assert.Equal(t, "nope", l.T("nope", nil))

	assert.Equal(t, "broken", l.T("broken", nil))
	assert.Equal(t, 1, rec.count("render failed"))
}
