// Package texts holds the user-facing strings of the bot in every supported
// locale and renders hunt replies through golang.org/x/text printers.
package texts

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/m3rciful/gotto/internal/hunt"
)

// DefaultLanguage is used when the sender's language is unknown or unsupported.
var DefaultLanguage = language.Russian

// Catalog resolves message keys for a set of locales.
type Catalog struct {
	builder *catalog.Builder
	matcher language.Matcher
	tags    []language.Tag
	tables  map[language.Tag]map[hunt.MessageKey]string
}

// New builds the catalog from the bundled locale tables.
func New() (*Catalog, error) {
	return newCatalog(map[language.Tag]map[hunt.MessageKey]string{
		language.Russian: ru,
		language.English: en,
	})
}

// MustNew is New for package-level initialisation.
func MustNew() *Catalog {
	c, err := New()
	if err != nil {
		panic(err)
	}
	return c
}

func newCatalog(tables map[language.Tag]map[hunt.MessageKey]string) (*Catalog, error) {
	if _, ok := tables[DefaultLanguage]; !ok {
		return nil, fmt.Errorf("texts: default locale %s has no table", DefaultLanguage)
	}
	b := catalog.NewBuilder(catalog.Fallback(DefaultLanguage))
	// The default locale leads so the matcher falls back to it.
	var rest []language.Tag
	for tag := range tables {
		if tag != DefaultLanguage {
			rest = append(rest, tag)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i].String() < rest[j].String() })
	tags := append([]language.Tag{DefaultLanguage}, rest...)
	for _, tag := range tags {
		for key, msg := range tables[tag] {
			if strings.TrimSpace(msg) == "" {
				return nil, fmt.Errorf("texts: %s: empty message %q", tag, key)
			}
			if err := b.SetString(tag, string(key), msg); err != nil {
				return nil, fmt.Errorf("texts: %s: set %q: %w", tag, key, err)
			}
		}
	}
	return &Catalog{builder: b, matcher: language.NewMatcher(tags), tags: tags, tables: tables}, nil
}

// Languages lists the supported locales, default first.
func (c *Catalog) Languages() []language.Tag {
	return append([]language.Tag(nil), c.tags...)
}

// Match picks the best supported locale for an IETF tag such as Telegram's
// language_code.
func (c *Catalog) Match(code string) language.Tag {
	code = strings.TrimSpace(code)
	if code == "" {
		return DefaultLanguage
	}
	tag, err := language.Parse(code)
	if err != nil {
		return DefaultLanguage
	}
	_, idx, conf := c.matcher.Match(tag)
	if conf == language.No {
		return DefaultLanguage
	}
	return c.tags[idx]
}

// Printer returns a printer bound to this catalog for the given language code.
func (c *Catalog) Printer(code string) *message.Printer {
	return message.NewPrinter(c.Match(code), message.Catalog(c.builder))
}

// Render formats key with args in the locale chosen for code.
func (c *Catalog) Render(code string, key hunt.MessageKey, args ...any) string {
	return c.Printer(code).Sprintf(string(key), args...)
}

// Has reports whether tag defines key itself, without falling back.
func (c *Catalog) Has(tag language.Tag, key hunt.MessageKey) bool {
	_, ok := c.tables[tag][key]
	return ok
}
