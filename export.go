package docufill

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Exporter renders a filled document to a fixed-layout PDF at a sibling
// path. Failure keeps the already written docx.
type Exporter interface {
	Export(ctx context.Context, docxPath string) (pdfPath string, err error)
}

// CommandRunner abstracts subprocess execution so converters can be
// tested without LibreOffice installed.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec.
type ExecRunner struct{}

// Run ..
func (ExecRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// SofficeExporter converts docx to PDF by invoking LibreOffice in
// headless mode. The conversion itself is fully delegated — this type
// only owns the invocation and the output path contract.
type SofficeExporter struct {
	Binary string // defaults to "soffice"
	Runner CommandRunner
}

// NewSofficeExporter ..
func NewSofficeExporter() *SofficeExporter {
	return &SofficeExporter{Runner: ExecRunner{}}
}

// Available - is the converter binary on PATH
func (e *SofficeExporter) Available() bool {
	_, err := exec.LookPath(e.bin())
	return err == nil
}

func (e *SofficeExporter) bin() string {
	if e.Binary != "" {
		return e.Binary
	}
	return "soffice"
}

// Export - blocking conversion, PDF written next to the docx
func (e *SofficeExporter) Export(ctx context.Context, docxPath string) (string, error) {
	outDir := filepath.Dir(docxPath)

	_, stderr, err := e.Runner.Run(ctx, e.bin(),
		"--headless", "--convert-to", "pdf", "--outdir", outDir, docxPath)
	if err != nil {
		if msg := strings.TrimSpace(stderr); msg != "" {
			return "", fmt.Errorf("%w: %s: %v", ErrExport, msg, err)
		}
		return "", fmt.Errorf("%w: %v", ErrExport, err)
	}

	pdfPath := strings.TrimSuffix(docxPath, filepath.Ext(docxPath)) + ".pdf"

	// soffice reports success on some failures, trust the filesystem
	if _, err := os.Stat(pdfPath); err != nil {
		return "", fmt.Errorf("%w: converter produced no output at %s", ErrExport, pdfPath)
	}
	return pdfPath, nil
}
