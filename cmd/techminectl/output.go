package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/techmine/techmine/internal/template"
	"github.com/tidwall/gjson"
)

var renderer = template.NewRenderer()

// render writes v as indented JSON, narrowed by --query and formatted by
// --template when set. Built-in views are selected with --template @name.
func (a *app) render(w io.Writer, v any) error {
	raw, ok := v.(json.RawMessage)
	if !ok {
		var err error
		if raw, err = json.Marshal(v); err != nil {
			return err
		}
	}

	if a.query != "" {
		res := gjson.GetBytes(raw, a.query)
		if !res.Exists() {
			return fmt.Errorf("query %q matched nothing", a.query)
		}
		if res.Type == gjson.String && a.tmpl == "" {
			_, err := fmt.Fprintln(w, res.Str)
			return err
		}
		raw = json.RawMessage(res.Raw)
	}

	if a.tmpl != "" {
		var data any
		if err := json.Unmarshal(raw, &data); err != nil {
			return err
		}
		out, err := renderer.Render(a.tmpl, data)
		if err != nil {
			return fmt.Errorf("template: %w", err)
		}
		_, err = fmt.Fprintln(w, strings.TrimRight(out, "\n"))
		return err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}
