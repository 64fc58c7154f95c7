package col

import (
	"errors"
	"fmt"
)

// Decode errors.
var (
	ErrUnknownSignature        = errors.New("unknown COL signature")
	ErrUnsupportedVersion      = errors.New("unsupported COL version")
	ErrTruncatedSection        = errors.New("truncated COL section")
	ErrUnrealisticGeometry     = errors.New("unrealistic COL geometry")
	ErrMalformedFaceGroupTable = errors.New("malformed COL face group table")
	ErrNoValidModel            = errors.New("no valid COL model")
)

// Validation errors.
var (
	ErrIndexOutOfRange  = errors.New("vertex index out of range")
	ErrMissingName      = errors.New("model name is empty")
	ErrInvalidBounds    = errors.New("invalid bounding volume")
	ErrInvalidFaceGroup = errors.New("invalid face group range")
)

// Kind classifies decode and validation problems.
type Kind int

const (
	KindUnknown Kind = iota
	KindUnknownSignature
	KindUnsupportedVersion
	KindTruncatedSection
	KindUnrealisticGeometry
	KindMalformedFaceGroupTable
	KindIndexOutOfRange
	KindMissingName
	KindInvalidBounds
	KindInvalidFaceGroup
	KindNoValidModel
	KindScanLimit
	KindCancelled
)

var kindNames = map[Kind]string{
	KindUnknown:                 "Unknown",
	KindUnknownSignature:        "UnknownSignature",
	KindUnsupportedVersion:      "UnsupportedVersion",
	KindTruncatedSection:        "TruncatedSection",
	KindUnrealisticGeometry:     "UnrealisticGeometry",
	KindMalformedFaceGroupTable: "MalformedFaceGroupTable",
	KindIndexOutOfRange:         "IndexOutOfRange",
	KindMissingName:             "MissingName",
	KindInvalidBounds:           "InvalidBounds",
	KindInvalidFaceGroup:        "InvalidFaceGroup",
	KindNoValidModel:            "NoValidModel",
	KindScanLimit:               "ScanLimit",
	KindCancelled:               "Cancelled",
}

// String returns the kind name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

var kindErrors = []struct {
	err  error
	kind Kind
}{
	{ErrUnknownSignature, KindUnknownSignature},
	{ErrUnsupportedVersion, KindUnsupportedVersion},
	{ErrTruncatedSection, KindTruncatedSection},
	{ErrUnrealisticGeometry, KindUnrealisticGeometry},
	{ErrMalformedFaceGroupTable, KindMalformedFaceGroupTable},
	{ErrIndexOutOfRange, KindIndexOutOfRange},
	{ErrMissingName, KindMissingName},
	{ErrInvalidBounds, KindInvalidBounds},
	{ErrInvalidFaceGroup, KindInvalidFaceGroup},
	{ErrNoValidModel, KindNoValidModel},
}

// KindOf returns the kind of a decode or validation error.
func KindOf(err error) Kind {
	for _, ke := range kindErrors {
		if errors.Is(err, ke.err) {
			return ke.kind
		}
	}
	return KindUnknown
}

// DecodeError records where a model failed to decode.
type DecodeError struct {
	Offset  int    // Absolute offset of the model signature
	Section string // Section being decoded ("header", "faces", ...)
	Err     error
}

func (e *DecodeError) Error() string {
	if e.Section == "" {
		return fmt.Sprintf("model at offset %d: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("model at offset %d: %s: %v", e.Offset, e.Section, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Severity of a diagnostic.
type Severity uint8

const (
	SeverityWarning Severity = iota // Geometry was kept
	SeverityError                   // Model was skipped
)

// String returns "warning" or "error".
func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Diagnostic is a non-fatal problem found while loading.
type Diagnostic struct {
	Offset   int      `json:"offset"` // Model offset, -1 if not tied to one
	Severity Severity `json:"severity"`
	Kind     Kind     `json:"kind"`
	Message  string   `json:"message"`
}

// String renders the diagnostic on one line.
func (d Diagnostic) String() string {
	if d.Offset < 0 {
		return fmt.Sprintf("%s: %s: %s", d.Severity, d.Kind, d.Message)
	}
	return fmt.Sprintf("%s at offset %d: %s: %s", d.Severity, d.Offset, d.Kind, d.Message)
}

// newDiagnostic builds a diagnostic from an error.
func newDiagnostic(offset int, sev Severity, err error) Diagnostic {
	return Diagnostic{
		Offset:   offset,
		Severity: sev,
		Kind:     KindOf(err),
		Message:  err.Error(),
	}
}
