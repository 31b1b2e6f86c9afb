package audit

import (
	"errors"
	"fmt"
)

// ErrNoCandidates is returned when the auditor is called with an empty
// candidate list. Callers must check for candidates first.
var ErrNoCandidates = errors.New("audit: no candidates to audit")

// AuditError wraps a failure raised while evaluating candidates.
type AuditError struct {
	CargoID string
	Plate   string
	Err     error
}

func (e *AuditError) Error() string {
	if e.Plate == "" {
		return fmt.Sprintf("audit: cargo %s: %v", e.CargoID, e.Err)
	}
	return fmt.Sprintf("audit: cargo %s, candidate %s: %v", e.CargoID, e.Plate, e.Err)
}

func (e *AuditError) Unwrap() error { return e.Err }
