package booking

import "github.com/google/uuid"

type Conflict struct {
	ReservationID uuid.UUID
	StartTime     string
	EndTime       string
	Status        string
}

// Result is the verdict for a proposed reservation. Business rule failures
// are reported here and never as Go errors.
type Result struct {
	Valid          bool
	Errors         []string
	Warnings       []string
	EstimatedPrice *int64
	Conflicts      []Conflict
}

func (r *Result) addError(msg string) {
	r.Errors = append(r.Errors, msg)
}

func (r *Result) addWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// HasOnlyConflicts reports whether the scheduling conflict is the sole failure.
func (r *Result) HasOnlyConflicts() bool {
	return len(r.Conflicts) > 0 && len(r.Errors) == 1
}
