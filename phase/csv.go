package phase

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

var csvHeader = []string{"mpea", "structure", "xAl", "xNi", "xCr", "xCo", "xFe"}

// WriteCSV writes rows in the column layout the visualization apps consume.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.Name,
			r.Structure,
			formatFraction(r.XAl),
			formatFraction(r.XNi),
			formatFraction(r.XCr),
			formatFraction(r.XCo),
			formatFraction(r.XFe),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFraction(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// ReadCSV parses and validates a composition CSV: required columns present,
// numeric fractions, parseable alloy names.
func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	col := map[string]int{}
	for i, name := range header {
		col[name] = i
	}
	for _, want := range csvHeader {
		if _, ok := col[want]; !ok {
			return nil, fmt.Errorf("CSV missing required column %q", want)
		}
	}

	parse := func(record []string, name string, line int) (float64, error) {
		v, err := strconv.ParseFloat(record[col[name]], 64)
		if err != nil {
			return 0, fmt.Errorf("line %d: column %q is not numeric: %q", line, name, record[col[name]])
		}
		return v, nil
	}

	var rows []Row
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV line %d: %w", line, err)
		}
		row := Row{
			Name:      record[col["mpea"]],
			Structure: record[col["structure"]],
		}
		if _, err := row.Y(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if row.XAl, err = parse(record, "xAl", line); err != nil {
			return nil, err
		}
		if row.XNi, err = parse(record, "xNi", line); err != nil {
			return nil, err
		}
		if row.XCr, err = parse(record, "xCr", line); err != nil {
			return nil, err
		}
		if row.XCo, err = parse(record, "xCo", line); err != nil {
			return nil, err
		}
		if row.XFe, err = parse(record, "xFe", line); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}
