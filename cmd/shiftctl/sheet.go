package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Samamatip/dh-workflow/internal/domain/upload"
	"github.com/Samamatip/dh-workflow/internal/pkg/spreadsheet"
)

// loadRows runs acceptance and row extraction on a local file the same way an upload does.
func loadRows(path string, rules upload.AcceptanceRules) ([]upload.RawRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	file := upload.FileHandle{
		Name:        filepath.Base(path),
		ContentType: spreadsheet.DetectContentType("", data),
		Size:        int64(len(data)),
	}
	if rejection := upload.Accept(file, rules); rejection != nil {
		return nil, fmt.Errorf("%s rejected (%s): %w", file.Name, rejection.Rule, rejection)
	}

	format, err := spreadsheet.FormatFor(file.ContentType, file.Name)
	if err != nil {
		return nil, err
	}
	grid, err := spreadsheet.ReadFirstSheet(data, format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", upload.ErrUnreadableFile, err)
	}

	rows, rejection := upload.ExtractRows(grid)
	if rejection != nil {
		return nil, fmt.Errorf("%s rejected (%s): %w", file.Name, rejection.Rule, rejection)
	}
	return rows, nil
}

func rulesFromFlags(templateName string, maxBytes int64) upload.AcceptanceRules {
	rules := upload.DefaultAcceptanceRules()
	if templateName != "" {
		rules.TemplateName = templateName
	}
	if maxBytes > 0 {
		rules.MaxBytes = maxBytes
	}
	return rules
}
