package dentaldx

import "fmt"

// FieldError reports an observation field whose value is outside its
// legal range. Resolvers return it before any table scan happens; it is
// the only caller-visible error class for ordinary inputs. "No diagnosis
// found" is never an error.
type FieldError struct {
	// Field names the offending field, qualified by site where relevant
	// (e.g. "disto-buccal.probingDepth").
	Field string
	// Reason describes why the value is invalid.
	Reason string
}

// Error implements error.
func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid observation field %s: %s", e.Field, e.Reason)
}
