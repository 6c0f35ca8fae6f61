// Package linguist stores localized message templates under dot-separated key
// paths, resolves which locale serves a request, renders templates against
// parameters and looks up which templates may have produced a rendered text.
//
// # Defining
//
// Dictionaries are nested Dict values flattened into paths on Define:
//
//	reg, _ := linguist.New(linguist.WithLocales("en-US", "zh-CN"))
//	h := reg.Define("en-US", linguist.Dict{
//		"commands": linguist.Dict{
//			"help": linguist.Dict{"description": linguist.Text("Show help")},
//		},
//	})
//	defer h.Revert()
//
// Locales prefixed with "$" are internal variants: they are consulted before
// the public locale and redefining them never logs an override warning.
//
// # Rendering
//
// Render resolves the requested locales through the locale tree (en-US falls
// back to en, then to the configured locales, then to the root locale) and
// returns the first template found, trying every locale for a path before
// moving on to the next path:
//
//	elements, err := reg.Render([]string{"en-GB"}, []string{"commands.help.description"}, nil)
//
// # Reverse lookup
//
// Find scans plain templates whose path matches a pattern and scores them by
// normalized edit distance against already rendered text:
//
//	results, err := reg.Find("commands.(name).description", "Show help")
//	// results[0].Data["name"] == "help"
package linguist
