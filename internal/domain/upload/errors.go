package upload

import "errors"

var (
	ErrSessionNotFound   = errors.New("upload session not found")
	ErrIllegalTransition = errors.New("upload step not allowed in the current state")
	ErrUnreadableFile    = errors.New("the uploaded file could not be read")
	ErrDraftNotFound     = errors.New("draft row not found")
)

// Rule names the acceptance check that rejected an upload.
type Rule string

const (
	RuleFormat   Rule = "format"
	RuleSize     Rule = "size"
	RuleTemplate Rule = "template"
	RuleHeaders  Rule = "headers"
	RuleEmpty    Rule = "empty"
)

// Rejection is an input failure that requires a different file.
type Rejection struct {
	Rule    Rule   `json:"rule"`
	Message string `json:"message"`
}

func (r *Rejection) Error() string {
	return r.Message
}

