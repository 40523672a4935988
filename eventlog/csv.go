package eventlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

var csvHeader = []string{"version", "timestamp", "type", "from", "to", "amount", "spender"}

// WriteCSV writes records with a header row.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("eventlog: write header: %w", err)
	}
	for i, r := range records {
		row := []string{
			strconv.Itoa(r.Version),
			r.Timestamp.UTC().Format(time.RFC3339Nano),
			r.Type,
			r.From,
			r.To,
			r.Amount,
			r.Spender,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("eventlog: write record %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ParseCSV reads records written by WriteCSV.
func ParseCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("eventlog: read header: %w", err)
	}
	if len(header) != len(csvHeader) {
		return nil, fmt.Errorf("eventlog: unexpected header %v", header)
	}

	var records []Record
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("eventlog: line %d: %w", line, err)
		}

		version, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("eventlog: line %d: invalid version %q", line, row[0])
		}
		ts, err := time.Parse(time.RFC3339Nano, row[1])
		if err != nil {
			return nil, fmt.Errorf("eventlog: line %d: invalid timestamp %q", line, row[1])
		}

		records = append(records, Record{
			Version:   version,
			Timestamp: ts,
			Type:      row[2],
			From:      row[3],
			To:        row[4],
			Amount:    row[5],
			Spender:   row[6],
		})
	}
	return records, nil
}
