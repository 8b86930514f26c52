package upload

import (
	"strings"

	"github.com/Samamatip/dh-workflow/internal/domain/shift"
)

// FileHandle describes an uploaded file before it is parsed.
type FileHandle struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// RawRow is one data row of the uploaded sheet.
type RawRow struct {
	// Line is the 1-based row number in the sheet, header included.
	Line          int     `json:"line"`
	RawDate       string  `json:"rawDate"`
	Date          *string `json:"date"`
	Day           string  `json:"day"`
	Shift         string  `json:"shift"`
	NumberOfSlots string  `json:"numberOfSlots"`
}

// ShiftTime is the admin-entered time range for one shift type.
type ShiftTime struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// TimeMap maps a lowercased shift label to its time range.
type TimeMap map[string]ShiftTime

// Normalize returns a copy keyed by trimmed, lowercased labels.
func (m TimeMap) Normalize() TimeMap {
	out := make(TimeMap, len(m))
	for label, t := range m {
		out[normalizeLabel(label)] = ShiftTime{
			StartTime: strings.TrimSpace(t.StartTime),
			EndTime:   strings.TrimSpace(t.EndTime),
		}
	}
	return out
}

// ShiftDraft is a materialized row. Quantity is 0 and Numeric false when the
// slot count could not be read as a whole number.
type ShiftDraft struct {
	shift.Draft
	Row         int    `json:"row"`
	RawQuantity string `json:"rawQuantity"`
	Numeric     bool   `json:"numeric"`
}

// IsValid reports whether the draft belongs in the submitted partition.
func (d ShiftDraft) IsValid() bool {
	return d.Numeric && d.Quantity > 0
}

// Partition splits drafts into the submitted and the excluded set.
type Partition struct {
	Valid    []ShiftDraft `json:"valid"`
	Excluded []ShiftDraft `json:"excluded"`
}

// Drafts returns the valid partition in submission form.
func (p Partition) Drafts() []shift.Draft {
	out := make([]shift.Draft, 0, len(p.Valid))
	for _, d := range p.Valid {
		out = append(out, d.Draft)
	}
	return out
}

func normalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
