// Command docufill fills {placeholder} fields in a docx template with
// values from tabular client records, optionally exports each filled
// document to PDF and stamps a logo onto the first page.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	flag "github.com/spf13/pflag"

	"github.com/docufill/docufill"
)

// Exit codes
const (
	exitOK    = 0
	exitFatal = 1
)

// ErrMissingFlags ..
var ErrMissingFlags = errors.New("flags --template, --data and --out are required")

type options struct {
	template    string
	data        string
	out         string
	logo        string
	pdf         bool
	onCollision string
	quiet       bool
}

func parseFlags(args []string) (*options, error) {
	fs := flag.NewFlagSet("docufill", flag.ContinueOnError)
	opts := &options{}

	fs.StringVarP(&opts.template, "template", "t", "", "docx template path or url (required)")
	fs.StringVarP(&opts.data, "data", "d", "", "record source: .xlsx, .csv, .json or .jsonl (required)")
	fs.StringVarP(&opts.out, "out", "o", "", "output directory, created if missing (required)")
	fs.StringVarP(&opts.logo, "logo", "l", "", "logo image stamped onto the first pdf page")
	fs.BoolVar(&opts.pdf, "pdf", true, "export each filled document to pdf")
	fs.StringVar(&opts.onCollision, "on-collision", "overwrite", "filename collision policy: overwrite, fail or suffix")
	fs.BoolVarP(&opts.quiet, "quiet", "q", false, "only report failures and the summary")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.template == "" || opts.data == "" || opts.out == "" {
		fmt.Fprint(os.Stderr, fs.FlagUsages())
		return nil, ErrMissingFlags
	}
	return opts, nil
}

func run(args []string) int {
	opts, err := parseFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		color.Red("%s", err)
		return exitFatal
	}

	collision, err := docufill.ParseCollisionPolicy(opts.onCollision)
	if err != nil {
		color.Red("%s", err)
		return exitFatal
	}

	// Fatal stage: template and data must both load before anything
	// is written
	records, err := docufill.LoadRecords(opts.data)
	if err != nil {
		color.Red("%s", err)
		return exitFatal
	}
	if len(records) == 0 {
		fmt.Println("no records found, nothing to do")
		return exitOK
	}

	tmpl, err := docufill.OpenTemplate(opts.template)
	if err != nil {
		color.Red("%s", err)
		return exitFatal
	}

	filler := &docufill.Filler{
		Template:  tmpl,
		OutDir:    opts.out,
		Collision: collision,
	}
	if opts.pdf {
		exporter := docufill.NewSofficeExporter()
		if !exporter.Available() {
			color.Red("libreoffice (soffice) not found on PATH, required for --pdf")
			return exitFatal
		}
		filler.Exporter = exporter

		if opts.logo != "" {
			filler.Stamper = &docufill.LogoStamper{}
			filler.LogoPath = opts.logo
		}
	}

	results, err := filler.Run(context.Background(), records)
	if err != nil {
		color.Red("%s", err)
		return exitFatal
	}

	return report(results, opts.quiet)
}

// report - one line per record plus summary. Per-record failures keep
// exit code 0 as long as at least one record succeeded.
func report(results []docufill.Result, quiet bool) int {
	var okCount, failCount int

	for _, res := range results {
		if res.OK() {
			okCount++
			if !quiet {
				color.Green("[OK]   %-24s %s", res.Name, finalPath(res))
			}
			continue
		}
		failCount++
		color.Red("[FAIL] %-24s record #%d at stage %q: %s", res.Name, res.Index+1, res.Stage, res.Err)
	}

	fmt.Printf("%d succeeded, %d failed\n", okCount, failCount)

	if okCount == 0 {
		return exitFatal
	}
	return exitOK
}

func finalPath(res docufill.Result) string {
	switch {
	case res.StampedPath != "":
		return res.StampedPath
	case res.PDFPath != "":
		return res.PDFPath
	}
	return res.DocxPath
}

func main() {
	os.Exit(run(os.Args[1:]))
}
