package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Formats lists the accepted output formats.
var Formats = []string{"text", "yaml", "json"}

// Write renders r to w in the given format.
func Write(w io.Writer, r Report, format string) error {
	switch format {
	case "text", "":
		return writeText(w, r)
	case "yaml":
		return writeYAML(w, r)
	case "json":
		return writeJSON(w, r)
	default:
		return fmt.Errorf("unsupported format: %s (supported: %s)", format, strings.Join(Formats, ", "))
	}
}

func writeYAML(w io.Writer, r Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&r); err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return enc.Close()
}

func writeJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func writeText(w io.Writer, r Report) error {
	p := &printer{w: w}

	p.line("========================================")
	if r.DryRun {
		p.line("Collage Plan")
	} else {
		p.line("Collage Summary")
	}
	p.line("========================================")
	if r.InputRoot != "" {
		p.printf("Input:   %s\n", r.InputRoot)
	}
	if r.OutputRoot != "" {
		p.printf("Output:  %s\n", r.OutputRoot)
	}

	for i, f := range r.Folders {
		p.printf("\n[%d] %s (%s)\n", i+1, f.Name, f.Status)
		if f.Error != "" {
			p.printf("  Error: %s\n", f.Error)
		}

		switch f.Status {
		case "skipped":
			p.line("  No images found")
			continue
		case "planned":
			p.printf("  Grid:   %d columns x %d rows\n", f.Columns, f.Rows)
			for _, img := range f.Images {
				if img.Error != "" {
					p.printf("    %s: unreadable (%s)\n", img.File, img.Error)
					continue
				}
				p.printf("    %s: %dx%d, stored %s\n", img.File, img.Width, img.Height, img.Orientation)
			}
			continue
		}

		if f.Width > 0 {
			p.printf("  Grid:    %d columns x %d rows, canvas %dx%d\n", f.Columns, f.Rows, f.Width, f.Height)
			p.printf("  Placed:  %d\n", f.Placed)
			p.printf("  Failed:  %d\n", f.Failed)
			p.printf("  Dropped: %d\n", f.Dropped)
		}
		if f.Output != "" && f.Status == "generated" {
			p.printf("  Saved:   %s\n", f.Output)
		}
		for _, img := range f.Images {
			if img.Status == "failed" {
				p.printf("  ❌ %s: %s\n", img.File, img.Error)
			}
		}
	}

	p.line("========================================")
	if !r.DryRun {
		p.printf("Generated %d collage(s)\n", r.Generated)
	}
	return p.err
}

// printer keeps the first write error so the text report can be written
// without checking every line.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) line(s string) {
	p.printf("%s\n", s)
}
