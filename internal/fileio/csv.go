// internal/fileio/csv.go
package fileio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"scanner-service/internal/bc125"
)

// csvHeader is the fixed column order of the channel table format.
var csvHeader = []string{"Index", "Name", "Frequency", "Mode", "Tone", "Delay", "Lockout", "Priority"}

// WriteChannelCSV writes channel records as a spreadsheet-friendly
// table, one row per slot, tones rendered as their labels.
func WriteChannelCSV(w io.Writer, records []ChannelRecord) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("write channel table header: %w", err)
	}
	for _, record := range records {
		var channel bc125.Channel
		if err := channel.FromDict(record.Data); err != nil {
			return fmt.Errorf("channel %d: %w", record.Index, err)
		}
		label, err := bc125.ToneLabel(channel.ToneCode)
		if err != nil {
			return fmt.Errorf("channel %d: %w", record.Index, err)
		}
		row := []string{
			strconv.Itoa(record.Index),
			channel.Name,
			channel.FrequencyMHz,
			channel.Mode,
			label,
			strconv.Itoa(channel.Delay),
			flagCell(channel.Lockout),
			flagCell(channel.Priority),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write channel %d: %w", record.Index, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// ReadChannelCSV parses a channel table back into records. The tone
// column accepts the canonical label or a bare numeric wire code; every
// row is fully validated before any record is returned.
func ReadChannelCSV(r io.Reader) ([]ChannelRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(csvHeader)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse channel table: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("channel table is empty")
	}
	for i, name := range csvHeader {
		if rows[0][i] != name {
			return nil, fmt.Errorf("channel table header: column %d is %q, want %q", i+1, rows[0][i], name)
		}
	}

	records := make([]ChannelRecord, 0, len(rows)-1)
	seen := make(map[int]bool, len(rows)-1)
	for n, row := range rows[1:] {
		line := n + 2
		index, err := strconv.Atoi(row[0])
		if err != nil || !bc125.ValidChannelIndex(index) {
			return nil, fmt.Errorf("line %d: invalid channel index %q", line, row[0])
		}
		if seen[index] {
			return nil, fmt.Errorf("line %d: duplicate channel index %d", line, index)
		}
		seen[index] = true

		delay, err := strconv.Atoi(row[5])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid delay %q", line, row[5])
		}
		lockout, err := parseFlagCell(row[6])
		if err != nil {
			return nil, fmt.Errorf("line %d: lockout: %w", line, err)
		}
		priority, err := parseFlagCell(row[7])
		if err != nil {
			return nil, fmt.Errorf("line %d: priority: %w", line, err)
		}

		var channel bc125.Channel
		dict := bc125.Dict{
			"name":      row[1],
			"frequency": row[2],
			"mode":      row[3],
			"tone":      row[4],
			"delay":     delay,
			"lockout":   lockout,
			"priority":  priority,
		}
		if err := channel.FromDict(dict); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, ChannelRecord{Index: index, Data: channel.ToDict()})
	}
	return records, nil
}

func flagCell(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func parseFlagCell(s string) (bool, error) {
	switch s {
	case "yes", "Yes", "YES", "true", "1":
		return true, nil
	case "no", "No", "NO", "false", "0", "":
		return false, nil
	}
	return false, fmt.Errorf("invalid flag value %q", s)
}
