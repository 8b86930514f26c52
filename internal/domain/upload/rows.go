package upload

import (
	"math"
	"strconv"
	"strings"
	"time"
)

var RequiredHeaders = []string{"date", "day", "shift", "number_of_slots"}

// ExtractRows reads a sheet grid whose first row holds the headers.
// Blank rows are skipped. Additional columns are ignored.
func ExtractRows(grid [][]string) ([]RawRow, *Rejection) {
	if len(grid) == 0 {
		return nil, emptySheet()
	}

	columns := make(map[string]int, len(grid[0]))
	for i, h := range grid[0] {
		name := strings.ToLower(strings.TrimSpace(h))
		if _, seen := columns[name]; !seen && name != "" {
			columns[name] = i
		}
	}
	for _, h := range RequiredHeaders {
		if _, ok := columns[h]; !ok {
			return nil, &Rejection{Rule: RuleHeaders, Message: "please upload the correct template"}
		}
	}

	cell := func(record []string, header string) string {
		i := columns[header]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	rows := make([]RawRow, 0, len(grid)-1)
	for i, record := range grid[1:] {
		if isBlank(record) {
			continue
		}
		row := RawRow{
			Line:          i + 2,
			RawDate:       cell(record, "date"),
			Day:           cell(record, "day"),
			Shift:         cell(record, "shift"),
			NumberOfSlots: cell(record, "number_of_slots"),
		}
		if date, ok := DecodeDate(row.RawDate); ok {
			formatted := date.Format("2006-01-02")
			row.Date = &formatted
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, emptySheet()
	}
	return rows, nil
}

func emptySheet() *Rejection {
	return &Rejection{Rule: RuleEmpty, Message: "No data found in the uploaded file, please check the file and try again."}
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// serialEpoch sits two days before 1900-01-01 once the phantom 1900-02-29 is accounted for.
var serialEpoch = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// maxSerial is 9999-12-31, the last date a spreadsheet can hold.
const maxSerial = 2958465

// SerialToDate converts a spreadsheet day serial to a calendar date.
// Serials <= 0 or past maxSerial have no date.
func SerialToDate(serial float64) (time.Time, bool) {
	if serial <= 0 || serial >= maxSerial+1 || math.IsNaN(serial) {
		return time.Time{}, false
	}
	days := int(math.Floor(serial))
	return serialEpoch.AddDate(0, 0, days-2), true
}

var textDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02/01/2006",
	"2006/01/02",
	"2-Jan-06",
	"2-Jan-2006",
}

// DecodeDate reads a date cell holding either a day serial or a textual date.
func DecodeDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		return SerialToDate(serial)
	}
	for _, layout := range textDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// ShiftTypes returns the distinct lowercased shift labels in first-seen order.
func ShiftTypes(rows []RawRow) []string {
	seen := make(map[string]struct{})
	types := make([]string, 0)
	for _, r := range rows {
		label := normalizeLabel(r.Shift)
		if label == "" {
			continue
		}
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		types = append(types, label)
	}
	return types
}

// UndatedRows returns the sheet lines whose date could not be decoded.
func UndatedRows(rows []RawRow) []int {
	lines := make([]int, 0)
	for _, r := range rows {
		if r.Date == nil {
			lines = append(lines, r.Line)
		}
	}
	return lines
}

// UnlabeledRows returns the sheet lines with an empty shift label.
func UnlabeledRows(rows []RawRow) []int {
	lines := make([]int, 0)
	for _, r := range rows {
		if normalizeLabel(r.Shift) == "" {
			lines = append(lines, r.Line)
		}
	}
	return lines
}

// ParseQuantity reads a slot count. Only whole numbers are numeric.
func ParseQuantity(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}
