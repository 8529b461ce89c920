package models

// String methods for custom string types.
// These are required for toon serialization, which uses fmt.Stringer.

// Kind
func (k Kind) String() string { return string(k) }

// IssueKind
func (k IssueKind) String() string { return string(k) }

// WarningKind
func (w WarningKind) String() string { return string(w) }
