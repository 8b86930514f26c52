package main

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/Samamatip/dh-workflow/internal/pkg/validator"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// validationDetails returns field messages for validation failures, nil otherwise.
func validationDetails(err error) map[string]string {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		return errs.ToMap()
	}
	return nil
}
