package model

// Severity drives UI emphasis for time- or budget-sensitive values.
type Severity int

const (
	SeverityNormal Severity = iota
	SeverityWarning
	SeverityDanger
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityDanger:
		return "danger"
	default:
		return "normal"
	}
}
