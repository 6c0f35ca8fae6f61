package linguist

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const bundledDir = "locales"

//go:embed locales/*.yml
var bundledFS embed.FS

// DecodeFunc decodes a dictionary file into nested data.
type DecodeFunc func(data []byte, v any) error

// decoders 按扩展名选择解析器
var decoders = map[string]DecodeFunc{
	".yml":  yaml.Unmarshal,
	".yaml": yaml.Unmarshal,
	".toml": toml.Unmarshal,
}

// IsDictionaryFile reports whether name has a supported dictionary extension.
func IsDictionaryFile(name string) bool {
	_, ok := decoders[strings.ToLower(path.Ext(name))]
	return ok
}

// LocaleFromFile derives the locale code from a file name: "en-US.yml" -> "en-US".
// Internal dictionaries keep their prefix: "$en-US.yml" -> "$en-US".
func LocaleFromFile(name string) string {
	base := path.Base(name)
	return strings.TrimSuffix(base, path.Ext(base))
}

// DecodeDictionary parses one dictionary file. The format is chosen by the
// file extension.
func DecodeDictionary(name string, data []byte) (Dict, error) {
	decode, ok := decoders[strings.ToLower(path.Ext(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
	var raw map[string]any
	if err := decode(data, &raw); err != nil {
		return nil, errors.Join(ErrFailedToParseFile, fmt.Errorf("%s: %w", name, err))
	}
	if raw == nil {
		return Dict{}, nil
	}
	d, ok := NodeOf(raw).(Dict)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDictionary, name)
	}
	return d, nil
}

// LoadDir 从目录中加载所有 `.yml/.yaml/.toml` 文件
// 例如: ./locales/en-US.yml, ./locales/zh-CN.toml
func (r *Registry) LoadDir(dir string) ([]*Handle, error) {
	return r.LoadFS(os.DirFS(dir), ".")
}

// MustLoadDir 版本，在初始化阶段直接 panic
func (r *Registry) MustLoadDir(dir string) []*Handle {
	handles, err := r.LoadDir(dir)
	if err != nil {
		panic(err)
	}
	return handles
}

// LoadFS defines every dictionary file below dir in fsys, one Define call per
// file. Files are visited in lexical order. Every file is read and decoded
// before the first Define, so an error leaves the registry untouched.
func (r *Registry) LoadFS(fsys fs.FS, dir string) ([]*Handle, error) {
	type file struct {
		locale string
		dict   Dict
	}
	var files []file
	err := fs.WalkDir(fsys, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsDictionaryFile(p) {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return errors.Join(ErrFailedToReadFile, err)
		}
		dict, err := DecodeDictionary(p, data)
		if err != nil {
			return err
		}
		files = append(files, file{locale: LocaleFromFile(p), dict: dict})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", dir, err)
	}

	handles := make([]*Handle, 0, len(files))
	for _, f := range files {
		if !WellFormedLocale(f.locale) {
			r.logger.Warn("locale is not a canonical BCP 47 tag", "locale", f.locale)
		}
		handles = append(handles, r.Define(f.locale, f.dict))
	}
	return handles, nil
}
