package template

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"text/template"
)

// Renderer formats command output with text/template. Parsed templates are
// cached by content.
type Renderer struct {
	mu        sync.Mutex
	templates map[string]*template.Template
}

func NewRenderer() *Renderer {
	return &Renderer{
		templates: make(map[string]*template.Template),
	}
}

// generateTemplateName derives a stable cache key from the template text
func generateTemplateName(tmpl string) string {
	hash := sha256.Sum256([]byte(tmpl))
	return fmt.Sprintf("tmpl_%s", hex.EncodeToString(hash[:8]))
}

// Render executes tmpl against data. A tmpl of the form "@name" selects a
// built-in view.
func (r *Renderer) Render(tmpl string, data any) (string, error) {
	if name, ok := strings.CutPrefix(tmpl, "@"); ok {
		body, found := builtins[name]
		if !found {
			return "", fmt.Errorf("unknown built-in template %q", name)
		}
		tmpl = body
	}

	t, err := r.parse(tmpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *Renderer) parse(tmpl string) (*template.Template, error) {
	name := generateTemplateName(tmpl)
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.templates[name]; ok {
		return t, nil
	}
	t, err := template.New(name).Funcs(funcMap()).Parse(tmpl)
	if err != nil {
		return nil, err
	}
	r.templates[name] = t
	return t, nil
}

// Builtins lists the names accepted after "@"
func Builtins() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	return names
}
