package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Samamatip/dh-workflow/internal/domain/upload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, dir string) string {
	t.Helper()
	return writeSheet(t, dir,
		[]interface{}{47623, "Monday", "Night", 2},
		[]interface{}{47624, "Tuesday", "night", -1},
		[]interface{}{47624, "Tuesday", "Day", 3},
	)
}

func writeSheet(t *testing.T, dir string, rows ...[]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"date", "day", "shift", "number_of_slots"}))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(dir, "march_dh_shift_Upload_template.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func writeTimes(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "times.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInspect_ListsShiftTypes(t *testing.T) {
	book := writeWorkbook(t, t.TempDir())

	out, err := run(t, "inspect", book)
	require.NoError(t, err)

	var got inspectOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 3, got.Rows)
	assert.Equal(t, []string{"night", "day"}, got.ShiftTypes)
	assert.Empty(t, got.UndatedRows)
	assert.Empty(t, got.UnlabeledRows)
}

func TestInspect_RejectsWrongTemplateName(t *testing.T) {
	dir := t.TempDir()
	book := writeWorkbook(t, dir)
	renamed := filepath.Join(dir, "roster.xlsx")
	require.NoError(t, os.Rename(book, renamed))

	_, err := run(t, "inspect", renamed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), string(upload.RuleTemplate))
}

func TestReview_PartitionsDrafts(t *testing.T) {
	dir := t.TempDir()
	book := writeWorkbook(t, dir)
	times := writeTimes(t, dir, "Night: {start: \"20:00\", end: \"08:00\"}\nday: {start: \"08:00\", end: \"20:00\"}\n")

	out, err := run(t, "review", book, "--times", times)
	require.NoError(t, err)

	var got reviewOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Partition.Valid, 2)
	require.Len(t, got.Partition.Excluded, 1)

	assert.Equal(t, "2030-05-20", got.Partition.Valid[0].Date)
	assert.Equal(t, "20:00", got.Partition.Valid[0].StartTime)
	assert.Equal(t, 2, got.Partition.Valid[0].Quantity)
	assert.Equal(t, 3, got.Partition.Excluded[0].Row)
}

func TestReview_MissingTimes(t *testing.T) {
	dir := t.TempDir()
	book := writeWorkbook(t, dir)
	times := writeTimes(t, dir, "night: {start: \"20:00\", end: \"08:00\"}\n")

	out, err := run(t, "review", book, "--times", times)
	require.Error(t, err)
	assert.Contains(t, out, "times.day")
}

func TestReviewFile_RunsSubmissionGate(t *testing.T) {
	dir := t.TempDir()
	book := writeWorkbook(t, dir)
	times, err := loadTimeMap(writeTimes(t, dir, "night: {start: \"20:00\", end: \"08:00\"}\nday: {start: \"08:00\", end: \"20:00\"}\n"))
	require.NoError(t, err)

	ok, err := reviewFile(book, times, upload.DefaultAcceptanceRules(), "dept-a", time.Date(2030, 5, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, ok.Errors)

	late, err := reviewFile(book, times, upload.DefaultAcceptanceRules(), "dept-a", time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Contains(t, late.Errors, "shift[0].date")
}

func TestReviewFile_UnlabeledRowFailsGate(t *testing.T) {
	dir := t.TempDir()
	book := writeSheet(t, dir,
		[]interface{}{47623, "Monday", "Night", 2},
		[]interface{}{47624, "Tuesday", "", 5},
	)
	times, err := loadTimeMap(writeTimes(t, dir, "night: {start: \"20:00\", end: \"08:00\"}\n"))
	require.NoError(t, err)

	out, err := reviewFile(book, times, upload.DefaultAcceptanceRules(), "dept-a", time.Date(2030, 5, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, []int{3}, out.UnlabeledRows)
	require.Len(t, out.Partition.Valid, 2)
	assert.Equal(t, 5, out.Partition.Valid[1].Quantity)
	assert.Contains(t, out.Errors, "shift[1].startTime")
}
