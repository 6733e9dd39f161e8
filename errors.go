package sc13dg

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormType is returned for any form type outside the
	// SC 13D / SC 13G family. It is raised before any text is processed.
	ErrUnsupportedFormType = errors.New("unsupported form type")

	// ErrMissingQuestion means a mandatory reporting-page question header
	// could not be located on a page.
	ErrMissingQuestion = errors.New("reporting page question not found")

	// ErrMissingCheckbox means question 2 lacks its (a)/(b) markers.
	ErrMissingCheckbox = errors.New("group membership checkbox markers not found")

	// ErrNotCheckboxQuestion is returned when a boolean box is requested for
	// a question that does not hold one.
	ErrNotCheckboxQuestion = errors.New("question does not hold a checkbox")

	// ErrOffsetsOutOfOrder flags a segment map whose found offsets are not
	// non-decreasing in document order.
	ErrOffsetsOutOfOrder = errors.New("segment offsets out of order")

	// ErrDocumentNotFound is returned when a submission does not contain the
	// requested document.
	ErrDocumentNotFound = errors.New("document not found in submission")

	// ErrRateLimited is returned when EDGAR serves its traffic-limit page.
	ErrRateLimited = errors.New("SEC request rate limit exceeded")
)

// ExtractionError locates a field-extraction failure on a reporting page.
// Page is 1-based; Question is 0 when the failure is not tied to one question.
type ExtractionError struct {
	Page     int
	Question int
	Err      error
}

func (e *ExtractionError) Error() string {
	if e.Question > 0 {
		return fmt.Sprintf("reporting page %d, question %d: %v", e.Page, e.Question, e.Err)
	}
	return fmt.Sprintf("reporting page %d: %v", e.Page, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
