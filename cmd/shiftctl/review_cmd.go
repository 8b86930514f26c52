package main

import (
	"fmt"
	"os"
	"time"

	"github.com/Samamatip/dh-workflow/internal/domain/upload"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// timeEntry is one shift type in the YAML time map:
//
//	morning: {start: "08:00", end: "16:00"}
//	night:   {start: "20:00", end: "08:00"}
type timeEntry struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

type reviewOutput struct {
	File          string            `json:"file"`
	Partition     upload.Partition  `json:"partition"`
	UnlabeledRows []int             `json:"unlabeledRows,omitempty"`
	Department    string            `json:"department,omitempty"`
	Errors        map[string]string `json:"errors,omitempty"`
}

func loadTimeMap(path string) (upload.TimeMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entries map[string]timeEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	times := make(upload.TimeMap, len(entries))
	for label, e := range entries {
		times[label] = upload.ShiftTime{StartTime: e.Start, EndTime: e.End}
	}
	return times.Normalize(), nil
}

// reviewFile maps times onto the rows of a file and partitions the drafts.
// A non-empty department also runs the pre-submit gate.
func reviewFile(path string, times upload.TimeMap, rules upload.AcceptanceRules, department string, today time.Time) (reviewOutput, error) {
	rows, err := loadRows(path, rules)
	if err != nil {
		return reviewOutput{}, err
	}

	if err := upload.ValidateTimeMap(upload.ShiftTypes(rows), times); err != nil {
		return reviewOutput{}, err
	}

	// Unlabeled rows come back without times and fail the gate below.
	drafts, _ := upload.MaterializeDrafts(rows, times)
	out := reviewOutput{
		File:          path,
		Partition:     upload.PartitionDrafts(drafts),
		UnlabeledRows: upload.UnlabeledRows(rows),
		Department:    department,
	}

	if department != "" {
		if err := upload.ValidateSubmission(department, out.Partition, today); err != nil {
			out.Errors = validationDetails(err)
		}
	}
	return out, nil
}

func newReviewCmd() *cobra.Command {
	var (
		timesPath    string
		department   string
		templateName string
		maxBytes     int64
	)

	cmd := &cobra.Command{
		Use:   "review <file>",
		Short: "Apply a shift time map and print the valid and excluded drafts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			times, err := loadTimeMap(timesPath)
			if err != nil {
				return err
			}

			out, err := reviewFile(args[0], times, rulesFromFlags(templateName, maxBytes), department, time.Now())
			if err != nil {
				if details := validationDetails(err); details != nil {
					_ = writeJSON(cmd.ErrOrStderr(), details)
				}
				return err
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVar(&timesPath, "times", "", "YAML file mapping shift types to start and end times (required)")
	cmd.Flags().StringVar(&department, "department", "", "Department id; when set the submission checks run too")
	cmd.Flags().StringVar(&templateName, "template", upload.DefaultTemplateName, "Required template file name fragment")
	cmd.Flags().Int64Var(&maxBytes, "max-bytes", upload.DefaultMaxBytes, "Maximum accepted file size")
	_ = cmd.MarkFlagRequired("times")
	return cmd
}
