package collagecmd

import (
	"bytes"
	"context"
	"encoding/json"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
)

func smallOptions(t *testing.T, input string) *Options {
	t.Helper()
	o := parseOptions(t,
		"--cell-width", "40",
		"--cell-height", "60",
		"--padding", "4",
		"--margin", "5",
	)
	o.Input = input
	o.Output = filepath.Join(t.TempDir(), "out")
	return o
}

func writeImage(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create folder: %v", err)
	}
	img := imaging.New(24, 16, color.NRGBA{R: 90, G: 160, B: 220, A: 255})
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func TestExecuteBatchFirstRun(t *testing.T) {
	input := filepath.Join(t.TempDir(), "your_images")
	o := smallOptions(t, input)

	var out bytes.Buffer
	if err := ExecuteBatch(context.Background(), o, &out); err != nil {
		t.Fatalf("Expected first run to succeed, got %v", err)
	}

	if !strings.Contains(out.String(), "Created input folder") {
		t.Errorf("Expected first-run instructions, got:\n%s", out.String())
	}
	if !strings.Contains(out.String(), ".bmp, .gif, .jpeg, .jpg, .png, .webp") {
		t.Errorf("Expected supported formats list, got:\n%s", out.String())
	}
	if _, err := os.Stat(input); err != nil {
		t.Errorf("Expected input folder to exist: %v", err)
	}
}

func TestExecuteBatchNoSubfolders(t *testing.T) {
	o := smallOptions(t, t.TempDir())

	var out bytes.Buffer
	if err := ExecuteBatch(context.Background(), o, &out); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(out.String(), "No subfolders found") {
		t.Errorf("Expected no-subfolders message, got:\n%s", out.String())
	}
}

func TestExecuteBatchJSON(t *testing.T) {
	input := t.TempDir()
	writeImage(t, filepath.Join(input, "trip", "a.png"))
	writeImage(t, filepath.Join(input, "trip", "b.jpg"))

	o := smallOptions(t, input)
	o.Format = "json"

	var out bytes.Buffer
	if err := ExecuteBatch(context.Background(), o, &out); err != nil {
		t.Fatalf("ExecuteBatch failed: %v", err)
	}

	var got struct {
		Generated int `json:"generated"`
		Folders   []struct {
			Name   string `json:"name"`
			Status string `json:"status"`
			Placed int    `json:"placed"`
		} `json:"folders"`
	}
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("Failed to parse JSON output: %v\n%s", err, out.String())
	}
	if got.Generated != 1 || len(got.Folders) != 1 || got.Folders[0].Placed != 2 {
		t.Errorf("Unexpected summary: %+v", got)
	}
	if _, err := os.Stat(filepath.Join(o.Output, "trip.jpg")); err != nil {
		t.Errorf("Expected trip.jpg: %v", err)
	}
}

func TestExecuteBatchReportsFailedFolder(t *testing.T) {
	input := t.TempDir()
	writeImage(t, filepath.Join(input, "ok", "a.png"))
	writeImage(t, filepath.Join(input, "blocked", "a.png"))

	o := smallOptions(t, input)
	if err := os.MkdirAll(filepath.Join(o.Output, "blocked.jpg"), 0755); err != nil {
		t.Fatalf("Failed to create blocking dir: %v", err)
	}

	var out bytes.Buffer
	err := ExecuteBatch(context.Background(), o, &out)
	if err == nil || !strings.Contains(err.Error(), "1 of 2 folder(s) failed") {
		t.Errorf("Expected failed folder error, got %v", err)
	}
	if !strings.Contains(out.String(), "blocked (failed)") {
		t.Errorf("Expected failure in summary, got:\n%s", out.String())
	}
}

func TestExecuteCompose(t *testing.T) {
	folder := filepath.Join(t.TempDir(), "scans")
	for _, name := range []string{"1.png", "2.png", "3.png"} {
		writeImage(t, filepath.Join(folder, name))
	}

	o := smallOptions(t, "")
	target := filepath.Join(t.TempDir(), "nested", "sheet.jpg")

	var out bytes.Buffer
	if err := executeCompose(context.Background(), o, folder, 2, target, &out); err != nil {
		t.Fatalf("executeCompose failed: %v", err)
	}

	img, err := imaging.Open(target)
	if err != nil {
		t.Fatalf("Failed to open collage: %v", err)
	}
	// 5 columns x 2 rows of 40x60 cells, 1px lines, 5px margin
	wantW := 5*40 + 6 + 10
	wantH := 2*60 + 3 + 10
	if img.Bounds().Dx() != wantW || img.Bounds().Dy() != wantH {
		t.Errorf("Expected %dx%d, got %dx%d", wantW, wantH, img.Bounds().Dx(), img.Bounds().Dy())
	}
	if !strings.Contains(out.String(), "Placed:  3") {
		t.Errorf("Expected placed count in summary, got:\n%s", out.String())
	}
}

func TestExecuteComposeDefaultOutput(t *testing.T) {
	folder := filepath.Join(t.TempDir(), "roll")
	writeImage(t, filepath.Join(folder, "a.png"))

	o := smallOptions(t, "")
	if err := executeCompose(context.Background(), o, folder, 0, "", &bytes.Buffer{}); err != nil {
		t.Fatalf("executeCompose failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(o.Output, "roll.jpg")); err != nil {
		t.Errorf("Expected roll.jpg in the output folder: %v", err)
	}
}

func TestExecuteComposeEmpty(t *testing.T) {
	o := smallOptions(t, "")
	err := executeCompose(context.Background(), o, t.TempDir(), 0, "", &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "no images found") {
		t.Errorf("Expected no images error, got %v", err)
	}
}

func TestExecutePlan(t *testing.T) {
	input := t.TempDir()
	writeImage(t, filepath.Join(input, "set", "a.png"))

	o := smallOptions(t, input)
	o.Format = "yaml"

	var out bytes.Buffer
	if err := executePlan(context.Background(), o, &out); err != nil {
		t.Fatalf("executePlan failed: %v", err)
	}
	for _, want := range []string{"dryrun: true", "status: planned", "orientation: landscape"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("Expected %q in plan output:\n%s", want, out.String())
		}
	}
	if _, err := os.Stat(o.Output); !os.IsNotExist(err) {
		t.Error("Expected plan not to create the output folder")
	}
}
