// Package export writes the section/detail tree to JSON, HTML or CSV files.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"golang.org/x/sync/errgroup"

	"tableflip.dev/notebox/pkg/glyph"
	"tableflip.dev/notebox/pkg/note"
)

// Format is an export file format.
type Format int

const (
	JSON Format = iota
	HTML
	CSV
)

// Formats lists the formats in menu order.
var Formats = []Format{JSON, HTML, CSV}

func (f Format) String() string {
	switch f {
	case JSON:
		return "JSON"
	case HTML:
		return "HTML"
	case CSV:
		return "CSV"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Extension is the file extension without the dot.
func (f Format) Extension() string {
	return strings.ToLower(f.String())
}

// ParseFormat accepts json, html or csv in any case.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if strings.EqualFold(strings.TrimSpace(s), f.String()) {
			return f, nil
		}
	}
	return JSON, fmt.Errorf("export: unknown format %q", s)
}

// FileName is the name written into the export directory.
func FileName(f Format) string {
	return "notebox-export." + f.Extension()
}

// Exporter writes export files into Dir.
type Exporter struct {
	Dir string
	Now func() time.Time
}

// Export writes sections in format f and returns the file path.
func (e Exporter) Export(sections []note.Section, f Format) (string, error) {
	var (
		data []byte
		err  error
	)
	switch f {
	case JSON:
		data, err = encodeJSON(sections)
	case HTML:
		data, err = e.encodeHTML(sections)
	case CSV:
		data, err = encodeCSV(sections)
	default:
		err = fmt.Errorf("export: unknown format %d", int(f))
	}
	if err != nil {
		return "", err
	}

	dir := e.Dir
	if dir == "" {
		if dir, err = os.UserHomeDir(); err != nil {
			return "", fmt.Errorf("export: resolve home: %w", err)
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("export: ensure dir: %w", err)
	}
	path := filepath.Join(dir, FileName(f))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("export: write %s: %w", path, err)
	}
	return path, nil
}

// ExportAll writes every format concurrently and returns the paths in
// Formats order.
func (e Exporter) ExportAll(sections []note.Section) ([]string, error) {
	paths := make([]string, len(Formats))
	var g errgroup.Group
	for i, f := range Formats {
		g.Go(func() error {
			p, err := e.Export(sections, f)
			paths[i] = p
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

// Message is the status line shown after an export attempt.
func Message(path string, err error) string {
	if err != nil {
		return fmt.Sprintf("%s export failed: %v", glyph.Failed, err)
	}
	return fmt.Sprintf("%s exported to %s", glyph.OK, path)
}

func encodeJSON(sections []note.Section) ([]byte, error) {
	if sections == nil {
		sections = []note.Section{}
	}
	data, err := json.MarshalIndent(sections, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export: encode json: %w", err)
	}
	return append(data, '\n'), nil
}

func encodeCSV(sections []note.Section) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Section", "Title", "Description", "Created At"}); err != nil {
		return nil, err
	}
	for _, s := range sections {
		for _, d := range s.Details {
			if err := w.Write([]string{s.Title, d.Title, d.Description, d.CreatedAt}); err != nil {
				return nil, fmt.Errorf("export: encode csv: %w", err)
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("export: encode csv: %w", err)
	}
	return buf.Bytes(), nil
}

var htmlPage = template.Must(template.New("export").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>notebox export</title>
</head>
<body>
<h1>Exported Sections</h1>
<p><small>{{.Generated}}</small></p>
{{range .Sections}}<h2>{{.Title}}</h2>
<ul>
{{range .Details}}<li><strong>{{.Title}}</strong>{{if .Language}} <em>{{.Language}}</em>{{end}}
{{.Description}}<small>{{.CreatedAt}}</small></li>
{{end}}</ul>
{{end}}</body>
</html>
`))

type htmlSection struct {
	Title   string
	Details []htmlDetail
}

type htmlDetail struct {
	Title       string
	Language    string
	Description template.HTML
	CreatedAt   string
}

// encodeHTML renders descriptions as Markdown. goldmark's default renderer
// drops raw HTML, so titles and descriptions cannot inject markup.
func (e Exporter) encodeHTML(sections []note.Section) ([]byte, error) {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	md := goldmark.New()
	page := struct {
		Generated string
		Sections  []htmlSection
	}{Generated: note.Timestamp(now())}

	for _, s := range sections {
		hs := htmlSection{Title: s.Title}
		for _, d := range s.Details {
			var desc bytes.Buffer
			if err := md.Convert([]byte(d.Description), &desc); err != nil {
				return nil, fmt.Errorf("export: render description: %w", err)
			}
			hd := htmlDetail{
				Title:       d.Title,
				Description: template.HTML(desc.String()), //nolint:gosec
				CreatedAt:   d.CreatedAt,
			}
			if d.Language != note.None {
				hd.Language = d.Language.Label()
			}
			hs.Details = append(hs.Details, hd)
		}
		page.Sections = append(page.Sections, hs)
	}

	var buf bytes.Buffer
	if err := htmlPage.Execute(&buf, page); err != nil {
		return nil, fmt.Errorf("export: render html: %w", err)
	}
	return buf.Bytes(), nil
}
