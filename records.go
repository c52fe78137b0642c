package docufill

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Record is one flat field→value set drawn from one input row/object.
// Keys keep their source order so every record of a tabular source
// carries the full header key set — missing cells become empty values,
// never absent keys.
type Record struct {
	keys   []string
	values map[string]string
}

// NewRecord ..
func NewRecord() Record {
	return Record{values: map[string]string{}}
}

// Set - add or replace a field. New keys keep insertion order.
func (r *Record) Set(key, value string) {
	if r.values == nil {
		r.values = map[string]string{}
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get - field value, empty string when key is not present
func (r Record) Get(key string) string {
	return r.values[key]
}

// Has ..
func (r Record) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Keys - field names in source order
func (r Record) Keys() []string {
	return r.keys
}

// LoadRecords - read the given data file into an ordered record list.
// Format is picked by extension: .xlsx / .csv / .json / .jsonl
func LoadRecords(path string) ([]Record, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return loadXLSX(path)
	case ".csv":
		return loadCSV(path)
	case ".json":
		return loadJSON(path)
	case ".jsonl":
		return loadJSONL(path)
	}
	return nil, fmt.Errorf("%w: %q (use .xlsx, .csv, .json or .jsonl)", ErrUnsupportedFormat, filepath.Ext(path))
}

// First worksheet, first row is the header. Trailing fully-empty rows
// are skipped, short rows are padded with empty values.
func loadXLSX(path string) ([]Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataLoad, err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: sheet [ %s ]: %v", ErrDataLoad, sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := normalizeHeaderRow(rows[0])

	var records []Record
	for _, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}
		rec := NewRecord()
		for i, key := range header {
			var val string
			if i < len(row) {
				val = strings.TrimSpace(row[i])
			}
			rec.Set(key, val)
		}
		records = append(records, rec)
	}
	return records, nil
}

func loadCSV(path string) ([]Record, error) {
	f, err := os.Open(path) // #nosec G304 - data path comes from CLI args
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataLoad, err)
	}
	defer func() { _ = f.Close() }()

	rdr := csv.NewReader(f)
	rdr.TrimLeadingSpace = true
	// short rows are padded to the header key set below, long rows keep
	// their extra cells ignored - match the tolerant xlsx path
	rdr.FieldsPerRecord = -1

	header, err := rdr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataLoad, err)
	}
	keys := normalizeHeaderRow(header)

	var records []Record
	for {
		row, err := rdr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDataLoad, err)
		}
		if isEmptyRow(row) {
			continue
		}
		rec := NewRecord()
		for i, key := range keys {
			var val string
			if i < len(row) {
				val = strings.TrimSpace(row[i])
			}
			rec.Set(key, val)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Top-level array of flat objects. A lone top-level object counts as a
// one-record list.
func loadJSON(path string) ([]Record, error) {
	f, err := os.Open(path) // #nosec G304 - data path comes from CLI args
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataLoad, err)
	}
	defer func() { _ = f.Close() }()

	dec := json.NewDecoder(f)
	dec.UseNumber()

	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataLoad, err)
	}

	var objects []map[string]any
	switch v := payload.(type) {
	case []any:
		for i, item := range v {
			obj, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: element %d is not an object", ErrDataLoad, i)
			}
			objects = append(objects, obj)
		}
	case map[string]any:
		objects = append(objects, v)
	default:
		return nil, fmt.Errorf("%w: top-level json must be an object or an array of objects", ErrDataLoad)
	}

	records := make([]Record, 0, len(objects))
	for _, obj := range objects {
		records = append(records, objectToRecord(obj))
	}
	return records, nil
}

// One object per line, blank lines skipped
func loadJSONL(path string) ([]Record, error) {
	f, err := os.Open(path) // #nosec G304 - data path comes from CLI args
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataLoad, err)
	}
	defer func() { _ = f.Close() }()

	var records []Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		dec := json.NewDecoder(strings.NewReader(line))
		dec.UseNumber()

		var obj map[string]any
		if err := dec.Decode(&obj); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrDataLoad, lineNo, err)
		}
		records = append(records, objectToRecord(obj))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataLoad, err)
	}
	return records, nil
}

// JSON objects have no source order, so keys are sorted for
// deterministic record layout.
func objectToRecord(obj map[string]any) Record {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rec := NewRecord()
	for _, k := range keys {
		rec.Set(normalizeHeader(k), stringify(obj[k]))
	}
	return rec
}

// All values are coerced to text before substitution. json.Number keeps
// the source digits, so 42 never turns into "4.2e+01".
func stringify(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Folds diacritics to plain ASCII so headers like "Şirket Adı" become
// usable placeholder keys ("sirket_adi")
var headerFold = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeHeader - header name to placeholder key:
// diacritics folded, non-ASCII dropped, lowercased, spaces to underscores
func normalizeHeader(s string) string {
	if folded, _, err := transform.String(headerFold, s); err == nil {
		s = folded
	}
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(s, " ", "_")
}

func normalizeHeaderRow(header []string) []string {
	keys := make([]string, len(header))
	for i, h := range header {
		keys[i] = normalizeHeader(h)
	}
	return keys
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
