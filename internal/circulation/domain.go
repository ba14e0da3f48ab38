// internal/circulation/domain.go
package circulation

// Result is the outcome of a lending operation at the desk.
type Result int

const (
	ResultNotFound Result = iota
	ResultIssued
	ResultAlreadyIssued
	ResultReturned
)

// String returns the value used for the "result" metric attribute.
func (r Result) String() string {
	switch r {
	case ResultNotFound:
		return "not_found"
	case ResultIssued:
		return "issued"
	case ResultAlreadyIssued:
		return "already_issued"
	case ResultReturned:
		return "returned"
	default:
		return "unknown"
	}
}

// Succeeded reports whether the book changed hands.
func (r Result) Succeeded() bool {
	return r == ResultIssued || r == ResultReturned
}
