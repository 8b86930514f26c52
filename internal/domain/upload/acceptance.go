package upload

import (
	"fmt"
	"mime"
	"strings"
)

const (
	MimeTypeXLS  = "application/vnd.ms-excel"
	MimeTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MimeTypeCSV  = "text/csv"

	DefaultMaxBytes     int64 = 10 << 20
	DefaultTemplateName       = "dh_shift_Upload_template.xlsx"
)

// AcceptanceRules configures Stage A file acceptance.
type AcceptanceRules struct {
	AllowedTypes []string
	MaxBytes     int64
	TemplateName string
}

func DefaultAcceptanceRules() AcceptanceRules {
	return AcceptanceRules{
		AllowedTypes: []string{MimeTypeXLS, MimeTypeXLSX, MimeTypeCSV},
		MaxBytes:     DefaultMaxBytes,
		TemplateName: DefaultTemplateName,
	}
}

// Accept checks format, size and template name in that order and returns the first failing rule.
func Accept(f FileHandle, rules AcceptanceRules) *Rejection {
	if !isAllowedType(f.ContentType, rules.AllowedTypes) {
		return &Rejection{Rule: RuleFormat, Message: "Invalid file format. Please upload an Excel file."}
	}
	if f.Size > rules.MaxBytes {
		return &Rejection{Rule: RuleSize, Message: fmt.Sprintf("File size exceeds %s limit.", formatBytes(rules.MaxBytes))}
	}
	if !strings.Contains(f.Name, rules.TemplateName) {
		return &Rejection{Rule: RuleTemplate, Message: "please upload the approved template"}
	}
	return nil
}

// BaseMediaType strips parameters from a content type and lowercases it.
func BaseMediaType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mediaType
}

func isAllowedType(contentType string, allowed []string) bool {
	base := BaseMediaType(contentType)
	for _, t := range allowed {
		if base == t {
			return true
		}
	}
	return false
}

func formatBytes(n int64) string {
	if n%(1<<20) == 0 {
		return fmt.Sprintf("%dMB", n>>20)
	}
	if n%(1<<10) == 0 {
		return fmt.Sprintf("%dKB", n>>10)
	}
	return fmt.Sprintf("%d bytes", n)
}
