package main

import (
	"github.com/Samamatip/dh-workflow/internal/domain/upload"
	"github.com/spf13/cobra"
)

type inspectOutput struct {
	File          string   `json:"file"`
	Rows          int      `json:"rows"`
	ShiftTypes    []string `json:"shiftTypes"`
	UndatedRows   []int    `json:"undatedRows"`
	UnlabeledRows []int    `json:"unlabeledRows"`
}

func newInspectCmd() *cobra.Command {
	var (
		templateName string
		maxBytes     int64
	)

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "List the distinct shift types of an upload file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := loadRows(args[0], rulesFromFlags(templateName, maxBytes))
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), inspectOutput{
				File:          args[0],
				Rows:          len(rows),
				ShiftTypes:    upload.ShiftTypes(rows),
				UndatedRows:   upload.UndatedRows(rows),
				UnlabeledRows: upload.UnlabeledRows(rows),
			})
		},
	}

	cmd.Flags().StringVar(&templateName, "template", upload.DefaultTemplateName, "Required template file name fragment")
	cmd.Flags().Int64Var(&maxBytes, "max-bytes", upload.DefaultMaxBytes, "Maximum accepted file size")
	return cmd
}
