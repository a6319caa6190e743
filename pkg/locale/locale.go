// Package locale renders user-facing chat text from message templates,
// keeping display language separate from data extraction.
package locale

import (
	"slices"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/plagness/NikaBot", "locale")

// Lang is a display language code
type Lang string

const (
	Russian Lang = "ru"
	English Lang = "en"
)

// DefaultLang is used when no language is configured.
const DefaultLang = Russian

// Catalog renders messages of a single language.
// It is immutable and safe for concurrent use.
type Catalog struct {
	lang      Lang
	templates map[string]*template.Template
}

// Languages returns supported language codes.
func Languages() []Lang {
	list := make([]Lang, 0, len(catalogs))
	for l := range catalogs {
		list = append(list, l)
	}
	slices.Sort(list)
	return list
}

// New parses the message catalog for the language,
// empty lang selects DefaultLang.
func New(lang string) (*Catalog, error) {
	l := Lang(strings.ToLower(strings.TrimSpace(lang)))
	if l == "" {
		l = DefaultLang
	}
	messages, ok := catalogs[l]
	if !ok {
		return nil, errors.Newf("unsupported language: %q", lang)
	}

	c := &Catalog{
		lang:      l,
		templates: make(map[string]*template.Template, len(messages)),
	}
	for id, text := range messages {
		t, err := template.New(id).Funcs(sprig.TxtFuncMap()).Option("missingkey=zero").Parse(text)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse message %s/%s", l, id)
		}
		c.templates[id] = t
	}
	return c, nil
}

// MustNew is like New but panics on error.
func MustNew(lang string) *Catalog {
	c, err := New(lang)
	if err != nil {
		panic(err)
	}
	return c
}

// Lang returns the catalog language
func (c *Catalog) Lang() Lang {
	return c.lang
}

// Render executes the message template with data.
// A missing or failing template renders as the message ID,
// so callers always get displayable text.
func (c *Catalog) Render(id string, data any) string {
	t, ok := c.templates[id]
	if !ok {
		logger.KV(xlog.ERROR,
			"reason", "message_not_found",
			"lang", c.lang,
			"id", id,
		)
		return id
	}

	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		logger.KV(xlog.ERROR,
			"reason", "render",
			"lang", c.lang,
			"id", id,
			"err", err.Error(),
		)
		return id
	}
	return b.String()
}

// Text renders a message that takes no parameters.
func (c *Catalog) Text(id string) string {
	return c.Render(id, nil)
}
