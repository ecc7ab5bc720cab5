package wizard

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"korx-catalog/internal/core/domain"
)

var (
	ErrWizardClosed     = errors.New("wizard: draft already submitted")
	ErrNoPreviousStep   = errors.New("wizard: already on the first step")
	ErrUseSubmit        = errors.New("wizard: review is the last step, submit instead")
	ErrNotOnReview      = errors.New("wizard: only allowed from the review step")
	ErrStepNotAvailable = errors.New("wizard: step is not available for this record")
)

// ValidationError блокирует уход с шага. FieldErrors привязаны к полям,
// StepError - к шагу целиком (например, не выбраны ни продажа, ни аренда).
type ValidationError struct {
	Step        Step
	FieldErrors map[domain.Field]string
	StepError   string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.FieldErrors)+1)
	if e.StepError != "" {
		parts = append(parts, e.StepError)
	}
	fields := make([]string, 0, len(e.FieldErrors))
	for f := range e.FieldErrors {
		fields = append(fields, string(f))
	}
	sort.Strings(fields)
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e.FieldErrors[domain.Field(f)]))
	}
	return fmt.Sprintf("validation failed on step %s: %s", e.Step, strings.Join(parts, "; "))
}

func (e *ValidationError) empty() bool {
	return len(e.FieldErrors) == 0 && e.StepError == ""
}

func (e *ValidationError) field(f domain.Field, msg string) {
	if e.FieldErrors == nil {
		e.FieldErrors = make(map[domain.Field]string)
	}
	e.FieldErrors[f] = msg
}
