package docufill

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Stage of the per-record pipeline:
// Loaded → Filled → [Exported] → [Stamped] → Done
type Stage string

// Pipeline stages
const (
	StageFilled   Stage = "fill"
	StageExported Stage = "export"
	StageStamped  Stage = "stamp"
	StageDone     Stage = "done"
)

// CollisionPolicy decides what happens when two records derive the
// same output filename.
type CollisionPolicy int8

// Collision policies
const (
	CollisionOverwrite CollisionPolicy = iota // later record wins
	CollisionFail                             // later record fails
	CollisionSuffix                           // later record gets _2, _3 ..
)

// ParseCollisionPolicy ..
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch s {
	case "overwrite", "":
		return CollisionOverwrite, nil
	case "fail":
		return CollisionFail, nil
	case "suffix":
		return CollisionSuffix, nil
	}
	return CollisionOverwrite, fmt.Errorf("unknown collision policy %q (use overwrite, fail or suffix)", s)
}

// Result is the outcome of one record. Err is nil when the record made
// it to StageDone; otherwise Stage names the stage that failed.
type Result struct {
	Index int
	Name  string
	Stage Stage
	Err   error

	DocxPath    string
	PDFPath     string
	StampedPath string
}

// OK ..
func (r Result) OK() bool {
	return r.Err == nil
}

// Filler runs the batch: one filled docx per record, optionally
// exported to PDF and stamped with a logo. A failing record is recorded
// and skipped — it never aborts the batch.
type Filler struct {
	Template *Template
	OutDir   string

	Exporter Exporter // nil - skip fixed-layout export
	Stamper  Stamper  // nil - skip stamping
	LogoPath string   // empty - skip stamping

	Collision CollisionPolicy
}

// Run - process all records sequentially. The returned error is fatal
// (output dir not creatable) and means nothing was written. Per-record
// failures live in the results.
func (f *Filler) Run(ctx context.Context, records []Record) ([]Result, error) {
	if err := os.MkdirAll(f.OutDir, 0o750); err != nil {
		return nil, fmt.Errorf("%w: create output dir: %v", ErrOutputWrite, err)
	}

	used := map[string]int{}
	results := make([]Result, 0, len(records))
	for i, rec := range records {
		results = append(results, f.fillOne(ctx, i, rec, used))
	}
	return results, nil
}

func (f *Filler) fillOne(ctx context.Context, index int, rec Record, used map[string]int) Result {
	res := Result{Index: index, Stage: StageFilled}

	name, err := f.deriveName(index, rec, used)
	res.Name = name
	if err != nil {
		res.Err = err
		return res
	}

	// Filled
	res.DocxPath = filepath.Join(f.OutDir, name+".docx")
	if err := f.Template.FillTo(res.DocxPath, rec); err != nil {
		res.Err = err
		return res
	}

	// Exported
	if f.Exporter == nil {
		res.Stage = StageDone
		return res
	}
	res.Stage = StageExported
	pdf, err := f.Exporter.Export(ctx, res.DocxPath)
	if err != nil {
		// keep the already written docx
		res.Err = err
		return res
	}
	res.PDFPath = pdf

	// Stamped
	if f.Stamper == nil || f.LogoPath == "" {
		res.Stage = StageDone
		return res
	}
	res.Stage = StageStamped
	stamped, err := f.Stamper.Stamp(pdf, f.LogoPath)
	if err != nil {
		res.Err = err
		return res
	}
	res.StampedPath = stamped

	res.Stage = StageDone
	return res
}

// deriveName - output base name from the record's name/surname fields,
// record index as fallback. Collisions resolved by policy.
func (f *Filler) deriveName(index int, rec Record, used map[string]int) (string, error) {
	base := baseName(index, rec)

	used[base]++
	n := used[base]
	if n == 1 {
		return base, nil
	}

	switch f.Collision {
	case CollisionFail:
		return base, fmt.Errorf("%w: %q already produced by an earlier record", ErrNameCollision, base)
	case CollisionSuffix:
		return fmt.Sprintf("%s_%d", base, n), nil
	}
	// CollisionOverwrite: later record wins, documented behavior
	return base, nil
}

func baseName(index int, rec Record) string {
	name := strings.TrimSpace(rec.Get("name"))
	surname := strings.TrimSpace(rec.Get("surname"))

	if name == "" && surname == "" {
		return fmt.Sprintf("record_%d", index+1)
	}
	if name == "" {
		name = "noname"
	}
	if surname == "" {
		surname = "nosurname"
	}
	return sanitizeFilename(name + "_" + surname)
}

// Strip path separators and control chars so record values can't escape
// the output directory
func sanitizeFilename(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		if r < 0x20 {
			return -1
		}
		return r
	}, s)
}
