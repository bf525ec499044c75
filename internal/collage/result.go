package collage

import (
	"image"
	"time"
)

// Status is what happened to one input image.
type Status int

const (
	StatusPlaced Status = iota
	StatusFailed
	StatusDropped // grid was already full
)

func (s Status) String() string {
	switch s {
	case StatusPlaced:
		return "placed"
	case StatusFailed:
		return "failed"
	case StatusDropped:
		return "dropped"
	default:
		return "unknown"
	}
}

// Outcome records the handling of a single input image.
type Outcome struct {
	Path        string
	Status      Status
	Cell        int // grid index, -1 unless placed
	Row         int
	Col         int
	Orientation Orientation
	Original    image.Point
	Trimmed     int
	Rotated     bool
	CapturedAt  time.Time // zero when the file carries no EXIF date
	Err         error
}

// Result summarises one collage.
type Result struct {
	Width    int
	Height   int
	Capacity int
	Placed   int
	Failed   int
	Dropped  int
	Outcomes []Outcome
}

func (r *Result) record(o Outcome) {
	switch o.Status {
	case StatusPlaced:
		r.Placed++
	case StatusFailed:
		r.Failed++
	case StatusDropped:
		r.Dropped++
	}
	r.Outcomes = append(r.Outcomes, o)
}
