package docufill_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docufill/docufill"
)

// fakeRunner records invocations and optionally drops the converted pdf
// where soffice would
type fakeRunner struct {
	stderr   string
	err      error
	writePDF bool

	name string
	args []string
}

func (r *fakeRunner) Run(_ context.Context, name string, args ...string) (string, string, error) {
	r.name = name
	r.args = args

	if r.writePDF {
		docx := args[len(args)-1]
		pdf := strings.TrimSuffix(docx, filepath.Ext(docx)) + ".pdf"
		if err := os.WriteFile(pdf, []byte("%PDF-1.4 fake"), 0o644); err != nil {
			return "", "", err
		}
	}
	return "", r.stderr, r.err
}

func TestSofficeExporterInvocation(t *testing.T) {
	dir := t.TempDir()
	docx := filepath.Join(dir, "Ana_Kovacs.docx")
	require.NoError(t, os.WriteFile(docx, []byte("fake docx"), 0o644))

	runner := &fakeRunner{writePDF: true}
	exporter := &docufill.SofficeExporter{Runner: runner}

	pdf, err := exporter.Export(context.Background(), docx)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "Ana_Kovacs.pdf"), pdf)
	assert.Equal(t, "soffice", runner.name)
	assert.Equal(t, []string{"--headless", "--convert-to", "pdf", "--outdir", dir, docx}, runner.args)
}

func TestSofficeExporterCustomBinary(t *testing.T) {
	dir := t.TempDir()
	docx := filepath.Join(dir, "doc.docx")
	require.NoError(t, os.WriteFile(docx, []byte("fake docx"), 0o644))

	runner := &fakeRunner{writePDF: true}
	exporter := &docufill.SofficeExporter{Binary: "libreoffice", Runner: runner}

	_, err := exporter.Export(context.Background(), docx)
	require.NoError(t, err)
	assert.Equal(t, "libreoffice", runner.name)
}

func TestSofficeExporterFailure(t *testing.T) {
	t.Run("converter error carries stderr", func(t *testing.T) {
		runner := &fakeRunner{stderr: "source file could not be loaded", err: errors.New("exit status 1")}
		exporter := &docufill.SofficeExporter{Runner: runner}

		_, err := exporter.Export(context.Background(), filepath.Join(t.TempDir(), "doc.docx"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, docufill.ErrExport))
		assert.Contains(t, err.Error(), "source file could not be loaded")
	})

	t.Run("silent success without output file", func(t *testing.T) {
		// soffice exits 0 on some conversion failures
		runner := &fakeRunner{writePDF: false}
		exporter := &docufill.SofficeExporter{Runner: runner}

		_, err := exporter.Export(context.Background(), filepath.Join(t.TempDir(), "doc.docx"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, docufill.ErrExport))
	})
}

func TestLogoStamperMissingLogo(t *testing.T) {
	stamper := &docufill.LogoStamper{}
	_, err := stamper.Stamp(filepath.Join(t.TempDir(), "doc.pdf"), filepath.Join(t.TempDir(), "missing.png"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, docufill.ErrStamp))
}
