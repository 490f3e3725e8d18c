package pipeline

import "errors"

// Label is the binary verdict on an idea.
type Label int

const (
	Invalid Label = 0
	Valid   Label = 1
)

// IsValid reports whether the label is Valid.
func (l Label) IsValid() bool {
	return l == Valid
}

// Feedback is the human-readable message shown for a label.
func (l Label) Feedback() string {
	if l == Valid {
		return "Likely Valid"
	}
	return "Likely Invalid"
}

var (
	ErrNotFitted        = errors.New("pipeline: component is not fitted")
	ErrArtifactMismatch = errors.New("pipeline: artifacts come from incompatible fit runs")
	ErrMalformedInput   = errors.New("pipeline: idea text is empty")
)
