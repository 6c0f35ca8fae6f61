package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/lifei6671/linguist"
	"github.com/lifei6671/linguist/cmd/i18nlint/checker"
)

func main() {
	dir := flag.String("d", "./locales", "directory of YAML/TOML locale files")
	ref := flag.String("ref", "en-US", "reference locale for missing/redundant keys (empty: union of all locales)")
	failOnError := flag.Bool("fail", false, "exit with code 1 if any issue found")
	find := flag.String("find", "", "path pattern for a reverse lookup, e.g. commands.(name).description")
	text := flag.String("text", "", "rendered text for -find")
	render := flag.String("render", "", "comma separated paths to render")
	locales := flag.String("locale", "", "comma separated requested locales for -render")
	verbose := flag.Bool("v", false, "log diagnostics (override, missing, deprecated preset)")
	flag.Parse()

	// .env 是可选的
	_ = godotenv.Load()

	level := slog.LevelError
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))

	cfg, err := linguist.LoadConfig()
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}

	if *find != "" || *render != "" {
		os.Exit(probe(logger, cfg, *dir, *find, *text, *render, *locales))
	}

	res, err := checker.CheckLocales(*dir, *ref)
	if err != nil {
		logger.Error("check locales", "dir", *dir, "error", err)
		os.Exit(1)
	}

	printResult(res)

	if *failOnError && res.HasIssues() {
		os.Exit(1)
	}
}

// probe loads dir on top of the bundled dictionaries and runs -find / -render.
func probe(logger *slog.Logger, cfg linguist.Config, dir, pattern, text, render, locales string) int {
	reg, err := linguist.New(linguist.WithConfig(cfg), linguist.WithLogger(logger))
	if err != nil {
		logger.Error("create registry", "error", err)
		return 1
	}
	if _, err := reg.LoadDir(dir); err != nil {
		logger.Error("load locales", "dir", dir, "error", err)
		return 1
	}

	if pattern != "" {
		results, err := reg.Find(pattern, text)
		if err != nil {
			logger.Error("find", "pattern", pattern, "error", err)
			return 1
		}
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Similarity > results[j].Similarity
		})
		fmt.Printf("=== FIND %q ===\n", pattern)
		for _, r := range results {
			fmt.Printf("  %.3f [%s] %v\n", r.Similarity, r.Locale, r.Data)
		}
		if len(results) == 0 {
			fmt.Println("  No match")
		}
	}

	if render != "" {
		elements, err := reg.Render(splitList(locales), splitList(render), nil)
		if err != nil {
			logger.Error("render", "paths", render, "error", err)
			return 1
		}
		fmt.Println(linguist.Join(elements))
	}
	return 0
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func printResult(res *checker.Result) {
	fmt.Println("=== I18N CHECK RESULT ===")
	fmt.Println("Languages:", res.Languages)
	fmt.Println("Total keys:", len(res.AllKeys))
	if res.Reference != "" {
		fmt.Println("Reference:", res.Reference)
	}

	for _, lang := range res.Languages {
		fmt.Printf("\n--- [%s] ---\n", lang)

		printList("Missing keys", res.MissingKeys[lang])
		printList("Redundant keys", res.RedundantKeys[lang])
		printList("Preset keys (deprecated)", res.Presets[lang])

		if errs := res.SyntaxErrors[lang]; len(errs) > 0 {
			fmt.Println("Syntax errors:")
			keys := make([]string, 0, len(errs))
			for key := range errs {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			for _, key := range keys {
				fmt.Printf("  - %s: %v\n", key, errs[key])
			}
		} else {
			fmt.Println("Syntax errors: None")
		}
	}
}

func printList(title string, arr []string) {
	if len(arr) == 0 {
		fmt.Printf("%s: None\n", title)
		return
	}
	fmt.Printf("%s:\n", title)
	for _, k := range arr {
		fmt.Println("  -", k)
	}
}
