package confusion

import "errors"

// Loader errors.
var (
	ErrEmptyMatrix    = errors.New("confusion matrix has no labels")
	ErrNotSquare      = errors.New("confusion matrix is not square")
	ErrDuplicateLabel = errors.New("duplicate confusion matrix label")
	ErrLabelMismatch  = errors.New("row label does not match column label")
)

// ErrIndexOutOfRange indicates a class index outside [0, N).
var ErrIndexOutOfRange = errors.New("class index out of range")

// Insufficient-data errors returned by BuildGraph.
var (
	ErrNoCandidates  = errors.New("no candidate classes")
	ErrTooFewClasses = errors.New("fewer than two candidate classes")
	ErrNoEdges       = errors.New("no confusions between candidates")
	ErrNoConnected   = errors.New("fewer than two connected classes")
)

var messages = map[error]string{
	ErrNoCandidates:  "No classes match this filter.",
	ErrTooFewClasses: "Not enough classes to draw a graph.",
	ErrNoEdges:       "No confusions for these classes.",
	ErrNoConnected:   "No connected classes for this filter.",
}

// IsInsufficientData reports whether err means there is nothing to draw,
// as opposed to a failure.
func IsInsufficientData(err error) bool {
	_, ok := Message(err)
	return ok
}

// Message returns the inline text shown in place of a visualization when err
// is an insufficient-data error.
func Message(err error) (string, bool) {
	for target, msg := range messages {
		if errors.Is(err, target) {
			return msg, true
		}
	}
	return "", false
}
