package network

import "fmt"

// WarningKind classifies a non-fatal topology finding.
type WarningKind string

const (
	// WarnUnattached marks a load or segment that joined nothing and
	// therefore contributes nothing to the result.
	WarnUnattached WarningKind = "UNATTACHED_INPUT"

	// WarnAmbiguous marks an input that was close enough to attach in more
	// than one place. The first match was used.
	WarnAmbiguous WarningKind = "AMBIGUOUS_ATTACHMENT"
)

// Warning is a non-fatal finding reported alongside a result.
type Warning struct {
	Kind    WarningKind `json:"kind" bson:"kind"`
	Subject string      `json:"subject" bson:"subject"`
	Message string      `json:"message" bson:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s: %s", w.Kind, w.Subject, w.Message)
}
