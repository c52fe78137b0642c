package docufill

import "errors"

// Sentinel errors for the fill pipeline.
//
// Template/data/format errors are fatal and abort the run before any
// output is written. Write/export/stamp errors belong to a single record
// and never abort the batch.
var (
	ErrTemplateLoad      = errors.New("template cannot be loaded")
	ErrDataLoad          = errors.New("data file cannot be loaded")
	ErrUnsupportedFormat = errors.New("unsupported data file format")

	ErrOutputWrite   = errors.New("output document write failed")
	ErrExport        = errors.New("fixed-layout export failed")
	ErrStamp         = errors.New("logo stamping failed")
	ErrNameCollision = errors.New("output filename collision")
)
