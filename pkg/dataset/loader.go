package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/terralab/tradenet/pkg/logging"
)

// Canonical column names the loader maps raw headers onto.
const (
	ColSource   = "source"
	ColTarget   = "target"
	ColPeriod   = "period"
	ColProduct  = "product"
	ColWeight   = "weight"
	ColQuantity = "quantity"
	ColFlow     = "flow"
)

// LoadOptions controls how a raw CSV file is read and validated.
type LoadOptions struct {
	// Separator is the CSV field delimiter. Defaults to ','.
	Separator rune

	// Encoding names the file charset: "utf-8" (default), "latin-1" or
	// "windows-1252".
	Encoding string `validate:"omitempty,oneof=utf-8 latin-1 windows-1252"`

	// Columns maps canonical column names to the headers actually present
	// in the file. Unmapped canonical names are looked up verbatim.
	Columns map[string]string

	// WithFlow requires a flow column: records are directional reports
	// that still need harmonization by the network builder.
	WithFlow bool

	// WithQuantity requires a second numeric column holding quantities,
	// enabling per-supplier prices (weight / quantity).
	WithQuantity bool
}

var optionsValidator = validator.New(validator.WithRequiredStructEnabled())

// Load reads, decodes and validates a CSV trade file into a Dataset.
// Validation is all-or-nothing: the first bad row fails the load and no
// partial dataset is returned.
func Load(path string, opts LoadOptions) (*Dataset, error) {
	start := time.Now()

	if opts.Separator == 0 {
		opts.Separator = ','
	}
	if err := optionsValidator.Struct(opts); err != nil {
		return nil, &LoadError{Op: "ValidateOptions", Path: path, Cause: err}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Op: "Open", Path: path, Cause: err}
	}
	defer f.Close()

	reader, err := decodingReader(f, opts.Encoding)
	if err != nil {
		return nil, &LoadError{Op: "Open", Path: path, Cause: err}
	}

	cr := csv.NewReader(reader)
	cr.Comma = opts.Separator
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, &LoadError{Op: "ReadHeader", Path: path, Cause: err}
	}

	idx, err := columnIndex(path, header, opts)
	if err != nil {
		return nil, err
	}

	records, err := readRows(cr, path, idx, opts)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &LoadError{Op: "ReadRows", Path: path, Cause: ErrEmptyFile}
	}

	ds := NewDataset(records, opts.WithQuantity)
	logging.Info("dataset loaded",
		logging.String("dataset_id", ds.ID),
		logging.String("path", path),
		logging.Int("records", len(records)),
		logging.Duration("elapsed", time.Since(start)),
	)
	return ds, nil
}

// decodingReader wraps the file reader with a charset decoder when the
// file is not UTF-8.
func decodingReader(r io.Reader, encoding string) (io.Reader, error) {
	switch encoding {
	case "", "utf-8":
		return r, nil
	case "latin-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrBadEncoding, encoding)
	}
}

type colIndex struct {
	source, target, period, product, weight int
	quantity, flow                          int // -1 when absent
}

func columnIndex(path string, header []string, opts LoadOptions) (colIndex, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.TrimSpace(h)] = i
	}

	lookup := func(canonical string) (int, error) {
		name := canonical
		if mapped, ok := opts.Columns[canonical]; ok {
			name = mapped
		}
		i, ok := pos[name]
		if !ok {
			return 0, missingColumnError(path, name)
		}
		return i, nil
	}

	idx := colIndex{quantity: -1, flow: -1}
	var err error
	if idx.source, err = lookup(ColSource); err != nil {
		return idx, err
	}
	if idx.target, err = lookup(ColTarget); err != nil {
		return idx, err
	}
	if idx.period, err = lookup(ColPeriod); err != nil {
		return idx, err
	}
	if idx.product, err = lookup(ColProduct); err != nil {
		return idx, err
	}
	if idx.weight, err = lookup(ColWeight); err != nil {
		return idx, err
	}
	if opts.WithQuantity {
		if idx.quantity, err = lookup(ColQuantity); err != nil {
			return idx, err
		}
	}
	if opts.WithFlow {
		if idx.flow, err = lookup(ColFlow); err != nil {
			return idx, err
		}
	}
	return idx, nil
}

func readRows(cr *csv.Reader, path string, idx colIndex, opts LoadOptions) ([]TradeRecord, error) {
	var records []TradeRecord
	seen := make(map[string]int)

	row := 0
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			return nil, rowError("ReadRows", path, row, "", err)
		}

		rec := TradeRecord{
			Source:  strings.TrimSpace(fields[idx.source]),
			Target:  strings.TrimSpace(fields[idx.target]),
			Period:  strings.TrimSpace(fields[idx.period]),
			Product: strings.TrimSpace(fields[idx.product]),
		}
		if rec.Source == rec.Target {
			return nil, rowError("ReadRows", path, row, ColTarget,
				fmt.Errorf("source and target are both %q", rec.Source))
		}

		rec.Weight, err = parseNumber(fields[idx.weight])
		if err != nil {
			return nil, rowError("ReadRows", path, row, ColWeight, err)
		}
		if rec.Weight < 0 {
			return nil, rowError("ReadRows", path, row, ColWeight,
				fmt.Errorf("negative weight %v", rec.Weight))
		}
		if idx.quantity >= 0 {
			rec.Quantity, err = parseNumber(fields[idx.quantity])
			if err != nil {
				return nil, rowError("ReadRows", path, row, ColQuantity, err)
			}
		}
		if idx.flow >= 0 {
			rec.Flow = strings.TrimSpace(fields[idx.flow])
		}

		key := rec.Source + "\x00" + rec.Target + "\x00" + rec.Period + "\x00" + rec.Product + "\x00" + rec.Flow
		if first, dup := seen[key]; dup {
			return nil, rowError("ReadRows", path, row, "",
				fmt.Errorf("%w: same key as row %d (%s -> %s, %s, %s)",
					ErrDuplicateEdge, first, rec.Source, rec.Target, rec.Period, rec.Product))
		}
		seen[key] = row

		records = append(records, rec)
	}

	return records, nil
}

// parseNumber converts a raw numeric field, tolerating thousands
// separators (commas) and surrounding whitespace as found in published
// trade statistics exports.
func parseNumber(raw string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if cleaned == "" {
		return 0, fmt.Errorf("%w: empty field", ErrNonNumericValue)
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNonNumericValue, raw)
	}
	return v, nil
}
