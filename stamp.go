package docufill

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Stamper overlays a static image onto the first page of a rendering.
type Stamper interface {
	Stamp(pdfPath, logoPath string) (stampedPath string, err error)
}

// LogoStamper stamps the logo with pdfcpu onto page 1 only, anchored
// top-left at a fixed size, and writes <base>_with_logo.pdf. The
// unstamped PDF is removed afterwards unless KeepOriginal is set.
type LogoStamper struct {
	KeepOriginal bool
}

// Top-left corner, pushed 50pt right and 50pt down, scaled to 20% of
// the image's intrinsic size
const logoStampDesc = "pos:tl, off:50 -50, scale:0.2 abs, rot:0"

// Stamp ..
func (s *LogoStamper) Stamp(pdfPath, logoPath string) (string, error) {
	if _, err := os.Stat(logoPath); err != nil {
		return "", fmt.Errorf("%w: logo: %v", ErrStamp, err)
	}

	out := stampedPath(pdfPath)
	if err := api.AddImageWatermarksFile(pdfPath, out, []string{"1"}, true, logoPath, logoStampDesc, nil); err != nil {
		return "", fmt.Errorf("%w: %v", ErrStamp, err)
	}

	if !s.KeepOriginal {
		if err := os.Remove(pdfPath); err != nil {
			log.Printf("stamp: can't remove unstamped pdf: %s", err)
		}
	}
	return out, nil
}

// stampedPath .. out/ana_kovacs.pdf -> out/ana_kovacs_with_logo.pdf
func stampedPath(pdfPath string) string {
	ext := filepath.Ext(pdfPath)
	return strings.TrimSuffix(pdfPath, ext) + "_with_logo" + ext
}
