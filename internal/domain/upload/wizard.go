package upload

import (
	"errors"
	"fmt"
	"time"

	"github.com/Samamatip/dh-workflow/internal/domain/shift"
	"github.com/Samamatip/dh-workflow/internal/pkg/validator"
)

type State string

const (
	StateIdle          State = "idle"
	StateFileSelected  State = "file_selected"
	StateRowsExtracted State = "rows_extracted"
	StateTimesAssigned State = "times_assigned"
	StateFinalReview   State = "final_review"
	StateSubmitting    State = "submitting"
	StateSucceeded     State = "succeeded"
	StateFailed        State = "failed"
)

// Failure records why a session entered StateFailed and where Retry resumes.
type Failure struct {
	Stage   State  `json:"stage"`
	Rule    Rule   `json:"rule,omitempty"`
	Message string `json:"message"`
	Resume  State  `json:"resume"`
}

// Session is one run of the bulk upload wizard. Methods move it between states
// and refuse transitions the current state does not allow.
type Session struct {
	ID      string `json:"id"`
	OwnerID string `json:"ownerId"`
	State   State  `json:"state"`

	File        *FileHandle `json:"file,omitempty"`
	ArchivePath string      `json:"archivePath,omitempty"`

	Rows          []RawRow `json:"rows,omitempty"`
	ShiftTypes    []string `json:"shiftTypes,omitempty"`
	UndatedRows   []int    `json:"undatedRows,omitempty"`
	UnlabeledRows []int    `json:"unlabeledRows,omitempty"`

	Times     TimeMap      `json:"times,omitempty"`
	Drafts    []ShiftDraft `json:"drafts,omitempty"`
	Partition *Partition   `json:"partition,omitempty"`

	DepartmentID string `json:"departmentId,omitempty"`
	Published    bool   `json:"published"`

	Failure *Failure                  `json:"failure,omitempty"`
	Result  *shift.BulkUploadResponse `json:"result,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewSession(id, ownerID string, now time.Time) *Session {
	return &Session{
		ID:        id,
		OwnerID:   ownerID,
		State:     StateIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Session) illegal(action string) error {
	return fmt.Errorf("%w: cannot %s while %s", ErrIllegalTransition, action, s.State)
}

func (s *Session) in(states ...State) bool {
	for _, st := range states {
		if s.State == st {
			return true
		}
	}
	return false
}

func (s *Session) clear() {
	s.File = nil
	s.ArchivePath = ""
	s.Rows = nil
	s.ShiftTypes = nil
	s.UndatedRows = nil
	s.UnlabeledRows = nil
	s.Times = nil
	s.Drafts = nil
	s.Partition = nil
	s.DepartmentID = ""
	s.Published = false
	s.Failure = nil
}

func (s *Session) fail(stage State, rule Rule, message string, resume State, now time.Time) {
	s.State = StateFailed
	s.Failure = &Failure{Stage: stage, Rule: rule, Message: message, Resume: resume}
	s.UpdatedAt = now
}

// SelectFile runs Stage A. A rejected file leaves the session failed with Idle as resume state.
func (s *Session) SelectFile(f FileHandle, rules AcceptanceRules, now time.Time) error {
	if s.State == StateSubmitting {
		return s.illegal("select a file")
	}
	s.clear()
	s.Result = nil

	if rejection := Accept(f, rules); rejection != nil {
		s.fail(StateFileSelected, rejection.Rule, rejection.Message, StateIdle, now)
		return rejection
	}

	s.File = &f
	s.State = StateFileSelected
	s.UpdatedAt = now
	return nil
}

// LoadRows runs Stages B to D on the parsed sheet.
func (s *Session) LoadRows(grid [][]string, now time.Time) error {
	if s.State != StateFileSelected {
		return s.illegal("read rows")
	}

	rows, rejection := ExtractRows(grid)
	if rejection != nil {
		s.fail(StateRowsExtracted, rejection.Rule, rejection.Message, StateFileSelected, now)
		return rejection
	}

	s.Rows = rows
	s.ShiftTypes = ShiftTypes(rows)
	s.UndatedRows = UndatedRows(rows)
	s.UnlabeledRows = UnlabeledRows(rows)
	s.State = StateRowsExtracted
	s.UpdatedAt = now
	return nil
}

// FailExtraction records a parse failure of the selected file.
func (s *Session) FailExtraction(now time.Time) error {
	if s.State != StateFileSelected {
		return s.illegal("record a read failure")
	}
	s.fail(StateRowsExtracted, "", ErrUnreadableFile.Error(), StateFileSelected, now)
	return nil
}

// AssignTimes runs Stage E. Every shift type must be mapped before any draft is kept.
func (s *Session) AssignTimes(times TimeMap, now time.Time) error {
	if !s.in(StateRowsExtracted, StateTimesAssigned, StateFinalReview) {
		return s.illegal("assign shift times")
	}

	normalized := times.Normalize()
	if err := ValidateTimeMap(s.ShiftTypes, normalized); err != nil {
		return err
	}

	drafts, _ := MaterializeDrafts(s.Rows, normalized)
	partition := PartitionDrafts(drafts)

	s.Times = normalized
	s.Drafts = drafts
	s.Partition = &partition
	s.State = StateTimesAssigned
	s.UpdatedAt = now
	return nil
}

// CorrectQuantity replaces the slot count of one draft. A session in final review
// returns to TimesAssigned and must pass the gate again.
func (s *Session) CorrectQuantity(row int, quantity int, now time.Time) error {
	if !s.in(StateTimesAssigned, StateFinalReview) {
		return s.illegal("correct a draft")
	}

	found := false
	for i := range s.Drafts {
		if s.Drafts[i].Row == row {
			s.Drafts[i].Quantity = quantity
			s.Drafts[i].Numeric = true
			s.Drafts[i].RawQuantity = fmt.Sprint(quantity)
			found = true
			break
		}
	}
	if !found {
		return ErrDraftNotFound
	}

	partition := PartitionDrafts(s.Drafts)
	s.Partition = &partition
	s.State = StateTimesAssigned
	s.UpdatedAt = now
	return nil
}

// Review applies the department and publish flag and enters FinalReview through the Stage F gate.
func (s *Session) Review(departmentID string, published bool, today time.Time, now time.Time) error {
	if !s.in(StateTimesAssigned, StateFinalReview) {
		return s.illegal("review drafts")
	}

	partition := PartitionDrafts(s.Drafts)
	s.Partition = &partition
	s.DepartmentID = departmentID
	s.Published = published
	s.UpdatedAt = now

	if err := ValidateSubmission(departmentID, partition, today); err != nil {
		s.State = StateTimesAssigned
		return err
	}

	s.State = StateFinalReview
	return nil
}

// BeginSubmit re-runs the gate and hands out the submission payload.
func (s *Session) BeginSubmit(today time.Time, now time.Time) (shift.BulkUploadRequest, error) {
	if s.State != StateFinalReview {
		return shift.BulkUploadRequest{}, s.illegal("submit")
	}

	partition := PartitionDrafts(s.Drafts)
	if err := ValidateSubmission(s.DepartmentID, partition, today); err != nil {
		s.State = StateTimesAssigned
		s.UpdatedAt = now
		return shift.BulkUploadRequest{}, err
	}

	s.State = StateSubmitting
	s.UpdatedAt = now
	return shift.BulkUploadRequest{
		Department: s.DepartmentID,
		Published:  s.Published,
		Shifts:     partition.Drafts(),
	}, nil
}

// CompleteSubmit records the outcome of a submission. Success clears every draft;
// failure keeps them so Retry can resume at FinalReview.
func (s *Session) CompleteSubmit(result *shift.BulkUploadResponse, submitErr error, now time.Time) error {
	if s.State != StateSubmitting {
		return s.illegal("complete a submission")
	}

	if submitErr != nil {
		message := "An error occurred while uploading the shifts. Please try again."
		var verrs validator.ValidationErrors
		if errors.As(submitErr, &verrs) {
			message = verrs.Error()
		}
		s.fail(StateSubmitting, "", message, StateFinalReview, now)
		return nil
	}

	s.clear()
	s.Result = result
	s.State = StateSucceeded
	s.UpdatedAt = now
	return nil
}

// Retry leaves StateFailed for the resume state of the failure.
func (s *Session) Retry(now time.Time) error {
	if s.State != StateFailed || s.Failure == nil {
		return s.illegal("retry")
	}
	resume := s.Failure.Resume
	if resume == StateIdle {
		s.clear()
	}
	s.Failure = nil
	s.State = resume
	s.UpdatedAt = now
	return nil
}

// Reset discards everything and returns to Idle.
func (s *Session) Reset(now time.Time) error {
	if s.State == StateSubmitting {
		return s.illegal("reset")
	}
	s.clear()
	s.Result = nil
	s.State = StateIdle
	s.UpdatedAt = now
	return nil
}

// Clone returns a copy that shares no mutable state with s.
func (s *Session) Clone() *Session {
	c := *s
	if s.File != nil {
		f := *s.File
		c.File = &f
	}
	c.Rows = append([]RawRow(nil), s.Rows...)
	c.ShiftTypes = append([]string(nil), s.ShiftTypes...)
	c.UndatedRows = append([]int(nil), s.UndatedRows...)
	c.UnlabeledRows = append([]int(nil), s.UnlabeledRows...)
	c.Drafts = append([]ShiftDraft(nil), s.Drafts...)
	if s.Times != nil {
		c.Times = make(TimeMap, len(s.Times))
		for k, v := range s.Times {
			c.Times[k] = v
		}
	}
	if s.Partition != nil {
		p := Partition{
			Valid:    append([]ShiftDraft(nil), s.Partition.Valid...),
			Excluded: append([]ShiftDraft(nil), s.Partition.Excluded...),
		}
		c.Partition = &p
	}
	if s.Failure != nil {
		f := *s.Failure
		c.Failure = &f
	}
	if s.Result != nil {
		r := *s.Result
		c.Result = &r
	}
	return &c
}
