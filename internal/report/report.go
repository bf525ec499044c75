package report

import (
	"path/filepath"
	"time"

	"github.com/lehigh-university-libraries/contactsheet/internal/batch"
	"github.com/lehigh-university-libraries/contactsheet/internal/collage"
)

// Report is the printable form of a batch run or plan
type Report struct {
	InputRoot  string         `yaml:"inputroot,omitempty" json:"input_root,omitempty"`
	OutputRoot string         `yaml:"outputroot,omitempty" json:"output_root,omitempty"`
	DryRun     bool           `yaml:"dryrun" json:"dry_run"`
	Generated  int            `yaml:"generated" json:"generated"`
	Folders    []FolderReport `yaml:"folders" json:"folders"`
}

// FolderReport describes one collage
type FolderReport struct {
	Name    string        `yaml:"name" json:"name"`
	Output  string        `yaml:"output,omitempty" json:"output,omitempty"`
	Status  string        `yaml:"status" json:"status"` // generated, skipped, failed or planned
	Error   string        `yaml:"error,omitempty" json:"error,omitempty"`
	Columns int           `yaml:"columns,omitempty" json:"columns,omitempty"`
	Rows    int           `yaml:"rows,omitempty" json:"rows,omitempty"`
	Width   int           `yaml:"width,omitempty" json:"width,omitempty"`
	Height  int           `yaml:"height,omitempty" json:"height,omitempty"`
	Placed  int           `yaml:"placed" json:"placed"`
	Failed  int           `yaml:"failed" json:"failed"`
	Dropped int           `yaml:"dropped" json:"dropped"`
	Images  []ImageReport `yaml:"images,omitempty" json:"images,omitempty"`
}

// ImageReport describes one input image
type ImageReport struct {
	File        string `yaml:"file" json:"file"`
	Status      string `yaml:"status" json:"status"`
	Cell        int    `yaml:"cell" json:"cell"`
	Orientation string `yaml:"orientation,omitempty" json:"orientation,omitempty"`
	Width       int    `yaml:"width,omitempty" json:"width,omitempty"`
	Height      int    `yaml:"height,omitempty" json:"height,omitempty"`
	Trimmed     int    `yaml:"trimmed,omitempty" json:"trimmed,omitempty"`
	Rotated     bool   `yaml:"rotated,omitempty" json:"rotated,omitempty"`
	CapturedAt  string `yaml:"capturedat,omitempty" json:"captured_at,omitempty"`
	Error       string `yaml:"error,omitempty" json:"error,omitempty"`
}

// FromSummary converts a batch summary into a report.
func FromSummary(s *batch.Summary, columns int) Report {
	r := Report{
		InputRoot:  s.InputRoot,
		OutputRoot: s.OutputRoot,
		DryRun:     s.DryRun,
		Folders:    make([]FolderReport, 0, len(s.Folders)),
	}
	if !s.DryRun {
		r.Generated = s.Generated()
	}

	for _, f := range s.Folders {
		fr := FolderReport{
			Name:    f.Name,
			Output:  f.Output,
			Columns: columns,
			Rows:    f.Rows,
		}
		if f.Result != nil {
			fr = fillResult(fr, f.Result)
		}

		switch {
		case f.Err != nil:
			fr.Status = "failed"
			fr.Error = f.Err.Error()
		case f.Skipped:
			fr.Status = "skipped"
			fr.Columns, fr.Output = 0, ""
		case s.DryRun:
			fr.Status = "planned"
		default:
			fr.Status = "generated"
		}

		for _, p := range f.Plan {
			ir := ImageReport{
				File:        filepath.Base(p.Path),
				Status:      "planned",
				Cell:        -1,
				Orientation: p.Orientation.String(),
				Width:       p.Width,
				Height:      p.Height,
			}
			if p.Err != nil {
				ir.Status = "unreadable"
				ir.Orientation = ""
				ir.Error = p.Err.Error()
			}
			fr.Images = append(fr.Images, ir)
		}

		r.Folders = append(r.Folders, fr)
	}

	return r
}

// FromResult builds a single-collage report.
func FromResult(name, output string, l collage.Layout, res *collage.Result) Report {
	fr := fillResult(FolderReport{
		Name:    name,
		Output:  output,
		Status:  "generated",
		Columns: l.Columns,
		Rows:    l.Rows,
	}, res)
	return Report{Generated: 1, Folders: []FolderReport{fr}}
}

func fillResult(fr FolderReport, res *collage.Result) FolderReport {
	fr.Width = res.Width
	fr.Height = res.Height
	fr.Placed = res.Placed
	fr.Failed = res.Failed
	fr.Dropped = res.Dropped

	for _, o := range res.Outcomes {
		ir := ImageReport{
			File:   filepath.Base(o.Path),
			Status: o.Status.String(),
			Cell:   o.Cell,
		}
		if o.Status == collage.StatusPlaced {
			ir.Orientation = o.Orientation.String()
			ir.Width = o.Original.X
			ir.Height = o.Original.Y
			ir.Trimmed = o.Trimmed
			ir.Rotated = o.Rotated
			if !o.CapturedAt.IsZero() {
				ir.CapturedAt = o.CapturedAt.Format(time.RFC3339)
			}
		}
		if o.Err != nil {
			ir.Error = o.Err.Error()
		}
		fr.Images = append(fr.Images, ir)
	}
	return fr
}
