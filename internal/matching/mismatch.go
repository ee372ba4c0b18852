package matching

import "fmt"

// MismatchKind tags which part of a request or response failed to
// match. Kept as a small closed enum (not an interface) so callers can
// exhaustively switch over it the way pact.BodyState is switched over.
type MismatchKind int

// Mismatch kinds, one per comparable location in a Request/Response.
const (
	MismatchMethod MismatchKind = iota
	MismatchPath
	MismatchQuery
	MismatchHeader
	MismatchBodyType
	MismatchBodyValue
	MismatchBodyMissingKey
	MismatchBodyUnexpectedKey
	MismatchBodyLength
	MismatchStatus
)

func (k MismatchKind) String() string {
	switch k {
	case MismatchMethod:
		return "MethodMismatch"
	case MismatchPath:
		return "PathMismatch"
	case MismatchQuery:
		return "QueryMismatch"
	case MismatchHeader:
		return "HeaderMismatch"
	case MismatchBodyType:
		return "BodyTypeMismatch"
	case MismatchBodyValue:
		return "BodyValueMismatch"
	case MismatchBodyMissingKey:
		return "BodyMissingKeyMismatch"
	case MismatchBodyUnexpectedKey:
		return "BodyUnexpectedKeyMismatch"
	case MismatchBodyLength:
		return "BodyLengthMismatch"
	case MismatchStatus:
		return "StatusMismatch"
	default:
		return "UnknownMismatch"
	}
}

// Mismatch describes one concrete way a request or response failed to
// satisfy an interaction's expectation. Path identifies the selector
// (e.g. "$.body.items[0].name", "$.header.Content-Type") the mismatch
// occurred at; for Method, Path and Status mismatches Path is empty.
type Mismatch struct {
	Kind     MismatchKind
	Path     string
	Expected string
	Actual   string
}

func (m Mismatch) String() string {
	if m.Path == "" {
		return fmt.Sprintf("%s: expected %q, got %q", m.Kind, m.Expected, m.Actual)
	}
	return fmt.Sprintf("%s at %s: expected %q, got %q", m.Kind, m.Path, m.Expected, m.Actual)
}

func methodMismatch(expected, actual string) Mismatch {
	return Mismatch{Kind: MismatchMethod, Expected: expected, Actual: actual}
}

func pathMismatch(expected, actual string) Mismatch {
	return Mismatch{Kind: MismatchPath, Expected: expected, Actual: actual}
}

func statusMismatch(expected, actual uint16) Mismatch {
	return Mismatch{Kind: MismatchStatus, Expected: fmt.Sprint(expected), Actual: fmt.Sprint(actual)}
}

func queryMismatch(path, expected, actual string) Mismatch {
	return Mismatch{Kind: MismatchQuery, Path: path, Expected: expected, Actual: actual}
}

func headerMismatch(path, expected, actual string) Mismatch {
	return Mismatch{Kind: MismatchHeader, Path: path, Expected: expected, Actual: actual}
}

func bodyTypeMismatch(path, expected, actual string) Mismatch {
	return Mismatch{Kind: MismatchBodyType, Path: path, Expected: expected, Actual: actual}
}

func bodyValueMismatch(path, expected, actual string) Mismatch {
	return Mismatch{Kind: MismatchBodyValue, Path: path, Expected: expected, Actual: actual}
}

func bodyMissingKeyMismatch(path, key string) Mismatch {
	return Mismatch{Kind: MismatchBodyMissingKey, Path: path, Expected: key, Actual: "(absent)"}
}

func bodyUnexpectedKeyMismatch(path, key string) Mismatch {
	return Mismatch{Kind: MismatchBodyUnexpectedKey, Path: path, Expected: "(absent)", Actual: key}
}

func bodyLengthMismatch(path string, expected, actual int) Mismatch {
	return Mismatch{Kind: MismatchBodyLength, Path: path, Expected: fmt.Sprint(expected), Actual: fmt.Sprint(actual)}
}
