package corpus

import "fmt"

// UnknownBookError is returned when a book ID does not resolve.
type UnknownBookError struct {
	BookID string
	// ParagraphID is the paragraph holding the reference, if known.
	ParagraphID string
}

func (e *UnknownBookError) Error() string {
	if e.ParagraphID != "" {
		return fmt.Sprintf("paragraph %q references unknown book %q", e.ParagraphID, e.BookID)
	}
	return fmt.Sprintf("unknown book id: %q", e.BookID)
}

// UnknownParagraphError is returned when a paragraph ID does not resolve.
type UnknownParagraphError struct {
	ParagraphID string
}

func (e *UnknownParagraphError) Error() string {
	return fmt.Sprintf("unknown paragraph id: %q", e.ParagraphID)
}

// ValidationError collects every problem found while validating a corpus.
type ValidationError struct {
	Problems []string
	// Missing lists the dangling book references, in discovery order.
	Missing []*UnknownBookError
}

func (e *ValidationError) Error() string {
	msg := "corpus validation failed:"
	for _, p := range e.Problems {
		msg += "\n  " + p
	}
	return msg
}

// Unwrap exposes the dangling references so callers can match them with
// errors.As.
func (e *ValidationError) Unwrap() []error {
	errs := make([]error, len(e.Missing))
	for i, m := range e.Missing {
		errs[i] = m
	}
	return errs
}
