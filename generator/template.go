package generator

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"
	"text/template"
)

//go:embed brief_prompt.tmpl
var briefPromptSource string

// TemplateError reports a malformed instruction document: a parse failure or
// a placeholder with no corresponding request field. It is a build defect and
// must not be shown to users as a correctable error.
type TemplateError struct {
	Name string
	Err  error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("prompt template %q: %v", e.Name, e.Err)
}

func (e *TemplateError) Unwrap() error { return e.Err }

// Template is one parameterized instruction document.
type Template struct {
	name string
	tmpl *template.Template
}

// NewTemplate parses src. Placeholders are written {{.field}} and every
// referenced field must be supplied at render time.
func NewTemplate(name, src string) (*Template, error) {
	t, err := template.New(name).Option("missingkey=error").Parse(src)
	if err != nil {
		return nil, &TemplateError{Name: name, Err: err}
	}
	return &Template{name: name, tmpl: t}, nil
}

var (
	defaultOnce sync.Once
	defaultTmpl *Template
)

// DefaultTemplate returns the embedded content brief document. It panics if
// the embedded document does not parse.
func DefaultTemplate() *Template {
	defaultOnce.Do(func() {
		t, err := NewTemplate("content_brief", briefPromptSource)
		if err != nil {
			panic(err)
		}
		defaultTmpl = t
	})
	return defaultTmpl
}

// Render substitutes the request's fields into the document. Values are
// inserted verbatim; template syntax inside a value is not evaluated.
func (t *Template) Render(req BriefRequest) (RenderedPrompt, error) {
	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, req.Fields()); err != nil {
		return "", &TemplateError{Name: t.name, Err: err}
	}
	return RenderedPrompt(buf.String()), nil
}
