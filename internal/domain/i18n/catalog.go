package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
)

//go:embed locales/*.json
var embedded embed.FS

// Dictionary is one language's nested string table
type Dictionary map[string]interface{}

// Lookup resolves a dot-separated path. It reports false when a segment is
// missing or the final value is not a string.
func (d Dictionary) Lookup(key string) (string, bool) {
	var current interface{} = map[string]interface{}(d)

	for _, segment := range strings.Split(key, ".") {
		node, ok := current.(map[string]interface{})
		if !ok {
			return "", false
		}
		current, ok = node[segment]
		if !ok {
			return "", false
		}
	}

	value, ok := current.(string)
	return value, ok
}

// Catalog holds the dictionaries of every supported language. It is
// immutable after loading and shared by all resolvers.
type Catalog struct {
	dictionaries map[Language]Dictionary
}

// NewCatalog builds a catalog from in-memory dictionaries
func NewCatalog(dictionaries map[Language]Dictionary) *Catalog {
	c := &Catalog{dictionaries: make(map[Language]Dictionary, len(dictionaries))}
	for lang, dict := range dictionaries {
		c.dictionaries[lang] = dict
	}
	return c
}

// LoadCatalog reads <lang>.json for each supported language from dir, or
// from the embedded locales when dir is empty
func LoadCatalog(dir string) (*Catalog, error) {
	var fsys fs.FS
	root := "."
	if dir == "" {
		fsys = embedded
		root = "locales"
	} else {
		fsys = os.DirFS(dir)
	}

	dictionaries := make(map[Language]Dictionary, len(Supported))
	for _, lang := range Supported {
		file := path.Join(root, string(lang)+".json")
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s dictionary: %w", lang, err)
		}

		var dict Dictionary
		if err := json.Unmarshal(data, &dict); err != nil {
			return nil, fmt.Errorf("failed to parse %s dictionary: %w", lang, err)
		}
		dictionaries[lang] = dict
	}

	return NewCatalog(dictionaries), nil
}

// Dictionary returns the table for lang; a missing table is empty
func (c *Catalog) Dictionary(lang Language) Dictionary {
	if dict, ok := c.dictionaries[lang]; ok {
		return dict
	}
	return Dictionary{}
}
