package i18n

import (
	"fmt"
	"sync"
)

// Document receives the attributes a page must carry for the active language
type Document interface {
	SetAttributes(dir Direction, lang Language)
}

// DocumentFunc adapts a function to Document
type DocumentFunc func(dir Direction, lang Language)

// SetAttributes calls f(dir, lang)
func (f DocumentFunc) SetAttributes(dir Direction, lang Language) {
	f(dir, lang)
}

// Resolver holds the active language and translates against a catalog
type Resolver struct {
	mu       sync.RWMutex
	language Language
	catalog  *Catalog
	document Document
}

// NewResolver creates a resolver and publishes the initial document
// attributes. doc may be nil.
func NewResolver(catalog *Catalog, lang Language, doc Document) (*Resolver, error) {
	if catalog == nil {
		catalog = NewCatalog(nil)
	}
	r := &Resolver{catalog: catalog, document: doc}
	if err := r.SetLanguage(lang); err != nil {
		return nil, err
	}
	return r, nil
}

// SetLanguage switches the active language and updates the document's
// direction and language attributes before returning
func (r *Resolver) SetLanguage(lang Language) error {
	if !lang.valid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, string(lang))
	}

	r.mu.Lock()
	r.language = lang
	doc := r.document
	r.mu.Unlock()

	if doc != nil {
		doc.SetAttributes(lang.Direction(), lang)
	}
	return nil
}

// Language returns the active language
func (r *Resolver) Language() Language {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.language
}

// IsRTL reports whether the active language is Arabic
func (r *Resolver) IsRTL() bool {
	return r.Language().IsRTL()
}

// Direction returns the active reading direction
func (r *Resolver) Direction() Direction {
	return r.Language().Direction()
}

// Translate looks key up as a dot path in the active dictionary. A miss
// returns key unchanged.
func (r *Resolver) Translate(key string) string {
	if value, ok := r.catalog.Dictionary(r.Language()).Lookup(key); ok {
		return value
	}
	return key
}

// TranslateInline picks between an English and an Arabic literal
func (r *Resolver) TranslateInline(en, ar string) string {
	if r.Language() == Arabic {
		return ar
	}
	return en
}

// T is the call-site helper: T(key) is a dictionary lookup and
// T(en, ar) an inline pair
func (r *Resolver) T(keyOrEn string, ar ...string) string {
	if len(ar) > 0 {
		return r.TranslateInline(keyOrEn, ar[0])
	}
	return r.Translate(keyOrEn)
}
