package upload

import (
	"testing"
	"time"

	"github.com/Samamatip/dh-workflow/internal/domain/shift"
	"github.com/Samamatip/dh-workflow/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const templateName = "dh_shift_Upload_template.xlsx"

func TestAccept_ChecksInOrder(t *testing.T) {
	rules := DefaultAcceptanceRules()

	cases := []struct {
		name string
		file FileHandle
		want Rule
	}{
		{
			name: "format wins over size and template",
			file: FileHandle{Name: "notes.pdf", ContentType: "application/pdf", Size: 20 << 20},
			want: RuleFormat,
		},
		{
			name: "size wins over template",
			file: FileHandle{Name: "big.xlsx", ContentType: MimeTypeXLSX, Size: 10<<20 + 1},
			want: RuleSize,
		},
		{
			name: "csv with valid headers still needs the template name",
			file: FileHandle{Name: "report.csv", ContentType: "text/csv", Size: 120},
			want: RuleTemplate,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rejection := Accept(tc.file, rules)
			require.NotNil(t, rejection)
			assert.Equal(t, tc.want, rejection.Rule)
			assert.NotEmpty(t, rejection.Error())
		})
	}
}

func TestAccept_AllowsTemplateCopies(t *testing.T) {
	rules := DefaultAcceptanceRules()

	assert.Nil(t, Accept(FileHandle{Name: templateName, ContentType: MimeTypeXLSX, Size: 10 << 20}, rules))
	assert.Nil(t, Accept(FileHandle{Name: "march " + templateName, ContentType: MimeTypeXLS, Size: 1}, rules))
	assert.Nil(t, Accept(FileHandle{Name: templateName + ".csv", ContentType: "text/csv; charset=utf-8", Size: 1}, rules))
}

func TestAccept_SizeMessage(t *testing.T) {
	rejection := Accept(FileHandle{Name: templateName, ContentType: MimeTypeXLSX, Size: 11 << 20}, DefaultAcceptanceRules())
	require.NotNil(t, rejection)
	assert.Equal(t, "File size exceeds 10MB limit.", rejection.Message)
}

func TestExtractRows_MissingHeaders(t *testing.T) {
	grid := [][]string{
		{"date", "day", "shift"},
		{"45000", "Monday", "Night"},
	}

	rows, rejection := ExtractRows(grid)
	assert.Nil(t, rows)
	require.NotNil(t, rejection)
	assert.Equal(t, RuleHeaders, rejection.Rule)
	assert.Equal(t, "please upload the correct template", rejection.Message)
}

func TestExtractRows_Empty(t *testing.T) {
	_, rejection := ExtractRows(nil)
	require.NotNil(t, rejection)
	assert.Equal(t, RuleEmpty, rejection.Rule)

	_, rejection = ExtractRows([][]string{{"date", "day", "shift", "number_of_slots"}, {"", " ", ""}})
	require.NotNil(t, rejection)
	assert.Equal(t, RuleEmpty, rejection.Rule)
}

func TestExtractRows_KeysByHeader(t *testing.T) {
	grid := [][]string{
		{"Shift", "notes", "number_of_slots", " date ", "day"},
		{"Night", "extra", "-2", "45000", "Wednesday"},
		{},
		{"Day", "", "3", "0", "Thursday"},
		{"day"},
	}

	rows, rejection := ExtractRows(grid)
	require.Nil(t, rejection)
	require.Len(t, rows, 3)

	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "Night", rows[0].Shift)
	assert.Equal(t, "-2", rows[0].NumberOfSlots)
	require.NotNil(t, rows[0].Date)
	assert.Equal(t, "2023-03-15", *rows[0].Date)

	assert.Equal(t, 4, rows[1].Line)
	assert.Nil(t, rows[1].Date, "serial 0 has no date")

	assert.Equal(t, 5, rows[2].Line)
	assert.Equal(t, "", rows[2].NumberOfSlots)
	assert.Equal(t, []int{4, 5}, UndatedRows(rows))
}

func TestSerialToDate(t *testing.T) {
	cases := []struct {
		serial float64
		want   string
		ok     bool
	}{
		{45000, "2023-03-15", true},
		{45000.75, "2023-03-15", true},
		{61, "1900-03-01", true},
		{44927, "2023-01-01", true},
		{0, "", false},
		{-5, "", false},
		{2958465, "9999-12-31", true},
		{2958466, "", false},
		{1e18, "", false},
	}
	for _, tc := range cases {
		got, ok := SerialToDate(tc.serial)
		assert.Equal(t, tc.ok, ok, "%v", tc.serial)
		if tc.ok {
			assert.Equal(t, tc.want, got.Format("2006-01-02"), "%v", tc.serial)
		}
	}

	_, ok := DecodeDate("1e18")
	assert.False(t, ok)
}

func TestDecodeDate_TextualDates(t *testing.T) {
	for _, raw := range []string{"2025-03-20", "20/03/2025", "2025-03-20T00:00:00Z", "2025/03/20"} {
		got, ok := DecodeDate(raw)
		require.True(t, ok, raw)
		assert.Equal(t, "2025-03-20", got.Format("2006-01-02"), raw)
	}

	_, ok := DecodeDate("next tuesday")
	assert.False(t, ok)
	_, ok = DecodeDate("")
	assert.False(t, ok)
}

// Legacy .xls workbooks hand dates over as formatted text rather than serials.
func TestDecodeDate_LegacyWorkbookText(t *testing.T) {
	for _, raw := range []string{"2023-03-15T00:00:00Z", "15-Mar-23", "15-Mar-2023", "15/03/2023"} {
		got, ok := DecodeDate(raw)
		require.True(t, ok, raw)
		assert.Equal(t, "2023-03-15", got.Format("2006-01-02"), raw)
	}

	rows, rejection := ExtractRows([][]string{
		{"date", "day", "shift", "number_of_slots"},
		{"2023-03-15T00:00:00Z", "Wednesday", "Night", "2"},
	})
	require.Nil(t, rejection)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].Date)
	assert.Equal(t, "2023-03-15", *rows[0].Date)
}

func TestShiftTypes_CaseInsensitive(t *testing.T) {
	rows := []RawRow{
		{Shift: "Night"},
		{Shift: "night"},
		{Shift: " DAY "},
		{Shift: ""},
		{Shift: "Day"},
	}

	assert.Equal(t, []string{"night", "day"}, ShiftTypes(rows))
	assert.Equal(t, []int{0}, UnlabeledRows(rows))
}

func TestParseQuantity(t *testing.T) {
	cases := []struct {
		raw     string
		want    int
		numeric bool
	}{
		{"3", 3, true},
		{"-2", -2, true},
		{"4.0", 4, true},
		{"2.5", 0, false},
		{"two", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, numeric := ParseQuantity(tc.raw)
		assert.Equal(t, tc.numeric, numeric, tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
	}
}

func dated(line int, date, label, slots string) RawRow {
	r := RawRow{Line: line, Shift: label, NumberOfSlots: slots}
	if date != "" {
		r.Date = &date
	}
	return r
}

func TestMaterializeDrafts(t *testing.T) {
	rows := []RawRow{
		dated(2, "2025-03-20", "Night", "2"),
		dated(3, "2025-03-21", "Evening", "1"),
		dated(4, "2025-03-22", "night", "-2"),
		dated(5, "", "NIGHT", "1"),
	}
	times := TimeMap{"NIGHT ": {StartTime: "22:00", EndTime: "06:00"}}

	drafts, unresolved := MaterializeDrafts(rows, times)

	assert.Equal(t, []string{"evening"}, unresolved)
	require.Len(t, drafts, 3)
	assert.Equal(t, "2025-03-20", drafts[0].Date)
	assert.Equal(t, "22:00", drafts[0].StartTime)
	assert.Equal(t, "06:00", drafts[0].EndTime)
	assert.Equal(t, 2, drafts[0].Quantity)
	assert.Equal(t, -2, drafts[1].Quantity)
	assert.Equal(t, "-2", drafts[1].RawQuantity)
	assert.Equal(t, "", drafts[2].Date, "undated rows stay visible")
}

func TestMaterializeDrafts_KeepsUnlabeledRows(t *testing.T) {
	rows := []RawRow{
		dated(2, "2025-03-20", "Night", "2"),
		dated(3, "2025-03-21", "  ", "5"),
	}

	drafts, unresolved := MaterializeDrafts(rows, TimeMap{"night": {StartTime: "22:00", EndTime: "06:00"}})

	assert.Empty(t, unresolved)
	require.Len(t, drafts, 2)
	assert.Equal(t, 3, drafts[1].Row)
	assert.Equal(t, 5, drafts[1].Quantity)
	assert.Empty(t, drafts[1].StartTime)
	assert.Empty(t, drafts[1].EndTime)

	err := ValidateSubmission("dept-1", PartitionDrafts(drafts), time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC))
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "startTime is required", errs.ToMap()["shift[1].startTime"])
}

func TestPartitionDrafts_KeepsEveryDraft(t *testing.T) {
	rows := []RawRow{
		dated(2, "2025-03-20", "Night", "-2"),
		dated(3, "2025-03-20", "Night", "3"),
		dated(4, "2025-03-21", "Night", "0"),
		dated(5, "2025-03-22", "Night", "many"),
		dated(6, "2025-03-23", "Night", "1"),
	}
	drafts, _ := MaterializeDrafts(rows, TimeMap{"night": {StartTime: "22:00", EndTime: "06:00"}})

	p := PartitionDrafts(drafts)

	assert.Equal(t, len(drafts), len(p.Valid)+len(p.Excluded))
	require.Len(t, p.Valid, 2)
	assert.Equal(t, 3, p.Valid[0].Row)
	assert.Equal(t, 6, p.Valid[1].Row)
	require.Len(t, p.Excluded, 3)
	assert.Equal(t, "-2", p.Excluded[0].RawQuantity)
	assert.Equal(t, -2, p.Excluded[0].Quantity)
	assert.False(t, p.Excluded[2].Numeric)
}

func TestValidateTimeMap(t *testing.T) {
	err := ValidateTimeMap([]string{"night", "day", "late"}, TimeMap{
		"night": {StartTime: "22:00", EndTime: "06:00"},
		"day":   {StartTime: "08:00", EndTime: "08:00"},
	})
	require.Error(t, err)

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	m := errs.ToMap()
	assert.Contains(t, m, "times.late")
	assert.Equal(t, "endTime must differ from startTime", m["times.day.endTime"])
	assert.NotContains(t, m, "times.night")
}

func TestValidateSubmission(t *testing.T) {
	today := time.Date(2025, time.March, 20, 16, 0, 0, 0, time.UTC)
	p := Partition{Valid: []ShiftDraft{{
		Draft:   shift.Draft{Date: "2025-03-20", StartTime: "22:00", EndTime: "06:00", Quantity: 1},
		Row:     2,
		Numeric: true,
	}}}

	assert.NoError(t, ValidateSubmission("dept-1", p, today))
	assert.Error(t, ValidateSubmission("", p, today))
	assert.Error(t, ValidateSubmission("dept-1", Partition{}, today))
	assert.Error(t, ValidateSubmission("dept-1", p, today.AddDate(0, 0, 1)))
}
