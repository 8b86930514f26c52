package upload

import (
	"time"

	"github.com/Samamatip/dh-workflow/internal/domain/shift"
	"github.com/Samamatip/dh-workflow/internal/pkg/validator"
)

// ValidateTimeMap requires a well-formed time range for every shift type.
func ValidateTimeMap(types []string, times TimeMap) error {
	var errs validator.ValidationErrors
	for _, label := range types {
		field := "times." + label
		t, ok := times[label]
		if !ok {
			errs.Add(field, "start and end times are required for shift type "+label)
			continue
		}
		startOK := validator.IsValidClock(t.StartTime)
		endOK := validator.IsValidClock(t.EndTime)
		switch {
		case !startOK:
			errs.Add(field+".startTime", "startTime must be in HH:MM format")
		case !endOK:
			errs.Add(field+".endTime", "endTime must be in HH:MM format")
		case t.StartTime == t.EndTime:
			errs.Add(field+".endTime", "endTime must differ from startTime")
		}
	}
	return errs.Err()
}

// MaterializeDrafts builds a draft for every row whose label has a mapped time range.
// Labels without a mapping are returned as unresolved in first-seen order.
// Rows with an empty label become drafts without times, so the submission gate
// stops them instead of losing them.
func MaterializeDrafts(rows []RawRow, times TimeMap) ([]ShiftDraft, []string) {
	times = times.Normalize()
	drafts := make([]ShiftDraft, 0, len(rows))
	unresolved := make([]string, 0)
	missing := make(map[string]struct{})

	for _, r := range rows {
		var t ShiftTime
		if label := normalizeLabel(r.Shift); label != "" {
			mapped, ok := times[label]
			if !ok {
				if _, seen := missing[label]; !seen {
					missing[label] = struct{}{}
					unresolved = append(unresolved, label)
				}
				continue
			}
			t = mapped
		}

		quantity, numeric := ParseQuantity(r.NumberOfSlots)
		d := ShiftDraft{
			Draft: shift.Draft{
				StartTime: t.StartTime,
				EndTime:   t.EndTime,
				Quantity:  quantity,
			},
			Row:         r.Line,
			RawQuantity: r.NumberOfSlots,
			Numeric:     numeric,
		}
		if r.Date != nil {
			d.Date = *r.Date
		}
		drafts = append(drafts, d)
	}
	return drafts, unresolved
}

// PartitionDrafts splits drafts into valid (numeric, quantity > 0) and excluded.
// Every draft lands in exactly one side, in input order.
func PartitionDrafts(drafts []ShiftDraft) Partition {
	p := Partition{
		Valid:    make([]ShiftDraft, 0, len(drafts)),
		Excluded: make([]ShiftDraft, 0),
	}
	for _, d := range drafts {
		if d.IsValid() {
			p.Valid = append(p.Valid, d)
		} else {
			p.Excluded = append(p.Excluded, d)
		}
	}
	return p
}

// ValidateSubmission is the Stage F gate over the valid partition.
func ValidateSubmission(department string, p Partition, today time.Time) error {
	return shift.ValidateBulk(department, p.Drafts(), today)
}
