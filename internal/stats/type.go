package stats

import "fmt"

// Type is the category of PyPI download breakdown to request.
type Type string

// Supported statistic types. The values match the pypistats.org API
// endpoint names, so a Type can be used directly in a request path.
const (
	// TypeOverall is the total download count per day, with and without
	// known mirror traffic.
	TypeOverall Type = "overall"

	// TypePythonMajor breaks downloads down by Python major version.
	TypePythonMajor Type = "python_major"

	// TypePythonMinor breaks downloads down by Python minor version.
	TypePythonMinor Type = "python_minor"

	// TypeSystem breaks downloads down by operating system.
	TypeSystem Type = "system"
)

// ParseType converts a user-supplied string into a Type.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeOverall, TypePythonMajor, TypePythonMinor, TypeSystem:
		return Type(s), nil
	default:
		return "", fmt.Errorf("%w: %q (expected overall, python_major, python_minor, or system)",
			ErrInvalidType, s)
	}
}

// Types returns all supported statistic types in display order.
func Types() []Type {
	return []Type{TypeOverall, TypePythonMajor, TypePythonMinor, TypeSystem}
}

// String returns the type name.
func (t Type) String() string {
	return string(t)
}
