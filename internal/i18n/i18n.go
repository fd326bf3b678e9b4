// Package i18n looks up UI strings in embedded YAML catalogs.
package i18n

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultLocale is used when no locale is configured and as the lookup fallback.
const DefaultLocale = "en"

//go:embed locales/*.yaml
var catalogFS embed.FS

// Translator resolves dotted keys such as "sidebarScreen.headerChat".
type Translator struct {
	locale   string
	catalogs map[string]map[string]string
}

// New loads every embedded catalog and selects locale. Unknown locales fall back to
// DefaultLocale.
func New(locale string) (*Translator, error) {
	entries, err := catalogFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read catalogs: %w", err)
	}

	catalogs := make(map[string]map[string]string, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		data, err := catalogFS.ReadFile("locales/" + name)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", name, err)
		}
		flat, err := parseCatalog(data)
		if err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", name, err)
		}
		catalogs[strings.TrimSuffix(name, ".yaml")] = flat
	}

	t := &Translator{catalogs: catalogs}
	t.locale = t.resolve(locale)
	return t, nil
}

// MustNew is New for callers that only use the embedded catalogs.
func MustNew(locale string) *Translator {
	t, err := New(locale)
	if err != nil {
		panic(err)
	}
	return t
}

// Locale returns the active locale.
func (t *Translator) Locale() string {
	if t == nil {
		return DefaultLocale
	}
	return t.locale
}

// Locales lists the available catalogs.
func (t *Translator) Locales() []string {
	if t == nil {
		return nil
	}
	out := make([]string, 0, len(t.catalogs))
	for name := range t.catalogs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Translate returns the string for key in the active locale, then in
// DefaultLocale, then the key itself.
func (t *Translator) Translate(key string) string {
	if t == nil {
		return key
	}
	if v, ok := t.catalogs[t.locale][key]; ok {
		return v
	}
	if v, ok := t.catalogs[DefaultLocale][key]; ok {
		return v
	}
	return key
}

// T is shorthand for Translate.
func (t *Translator) T(key string) string {
	return t.Translate(key)
}

func (t *Translator) resolve(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if _, ok := t.catalogs[locale]; ok {
		return locale
	}
	// "es-MX" and "es_MX" use the "es" catalog.
	if base, _, found := strings.Cut(strings.ReplaceAll(locale, "_", "-"), "-"); found {
		if _, ok := t.catalogs[base]; ok {
			return base
		}
	}
	return DefaultLocale
}

func parseCatalog(data []byte) (map[string]string, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	flat := make(map[string]string)
	flatten("", raw, flat)
	return flat, nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case nil:
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}
