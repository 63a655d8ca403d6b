package pipeline

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"

	"go-survey-stats/internal/model"
	"go-survey-stats/pkg/utils"
)

// Columns the loader needs; any other column in the file is ignored.
const (
	colYearStart  = "YearStart"
	colYearEnd    = "YearEnd"
	colLocation   = "LocationDesc"
	colQuestion   = "Question"
	colDataValue  = "Data_Value"
	colStratCat   = "StratificationCategory1"
	colStratValue = "Stratification1"
)

var requiredColumns = []string{
	colYearStart, colYearEnd, colLocation, colQuestion, colDataValue, colStratCat, colStratValue,
}

// Dataset is the immutable, in-memory survey table. It is loaded once and
// shared read-only by every job, so it needs no locking.
type Dataset struct {
	records []model.Record
}

// NewDataset wraps already parsed records. The slice must not be modified
// afterwards.
func NewDataset(records []model.Record) *Dataset {
	return &Dataset{records: records}
}

func (d *Dataset) Len() int { return len(d.records) }

func (d *Dataset) Record(i int) *model.Record { return &d.records[i] }

// ------------------- CSV Ingestion -------------------

// LoadDataset reads the survey CSV at path. Any malformed row aborts the
// load with a *model.LoadError.
func LoadDataset(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &model.LoadError{Path: path, Err: err}
	}
	defer file.Close()

	ds, err := ReadDataset(file, path)
	if err != nil {
		return nil, err
	}
	slog.Info("dataset loaded", "path", path, "records", ds.Len())
	return ds, nil
}

// ReadDataset parses CSV from r; name is only used in errors.
func ReadDataset(r io.Reader, name string) (*Dataset, error) {
	csvReader := csv.NewReader(r)
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	headers, err := csvReader.Read()
	if err != nil {
		return nil, &model.LoadError{Path: name, Line: 1, Err: fmt.Errorf("read header: %w", err)}
	}

	index := make(map[string]int, len(headers))
	for i, h := range headers {
		// Clean header names: trim whitespace, BOM and quotes
		clean := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		clean = strings.ReplaceAll(clean, `"`, "")
		index[clean] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, &model.LoadError{Path: name, Line: 1, Err: fmt.Errorf("missing column %q", col)}
		}
	}

	var records []model.Record
	for {
		row, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			line := 0
			if errors.As(err, &parseErr) {
				line = parseErr.Line
			}
			return nil, &model.LoadError{Path: name, Line: line, Err: err}
		}
		line, _ := csvReader.FieldPos(0)

		rec, err := parseRow(row, index)
		if err != nil {
			return nil, &model.LoadError{Path: name, Line: line, Err: err}
		}
		records = append(records, rec)
	}

	return NewDataset(records), nil
}

func parseRow(row []string, index map[string]int) (model.Record, error) {
	cell := func(col string) string {
		i := index[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	yearStart, err := utils.ParseInt(cell(colYearStart))
	if err != nil {
		return model.Record{}, fmt.Errorf("%s: %w", colYearStart, err)
	}
	yearEnd, err := utils.ParseInt(cell(colYearEnd))
	if err != nil {
		return model.Record{}, fmt.Errorf("%s: %w", colYearEnd, err)
	}

	value := math.NaN()
	if raw := cell(colDataValue); raw != "" {
		value, err = utils.ParseFloat(raw)
		if err != nil {
			return model.Record{}, fmt.Errorf("%s: %w", colDataValue, err)
		}
	}

	return model.Record{
		YearStart:               yearStart,
		YearEnd:                 yearEnd,
		LocationDesc:            cell(colLocation),
		Question:                cell(colQuestion),
		DataValue:               value,
		StratificationCategory1: cell(colStratCat),
		Stratification1:         cell(colStratValue),
	}, nil
}
