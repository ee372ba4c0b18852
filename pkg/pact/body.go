package pact

import (
	"bytes"
	"regexp"
	"strings"
)

// BodyState tags the four distinct states an OptionalBody can be in.
// Missing and Null are kept distinct because the wire formats they
// represent (an absent JSON key vs. an explicit `null`) are distinct
// in the documents mockd writes and reads.
type BodyState int

const (
	// BodyMissing means the "body" key was absent entirely.
	BodyMissing BodyState = iota
	// BodyNull means "body": null was present.
	BodyNull
	// BodyEmpty means a present, zero-length payload ("body": "").
	BodyEmpty
	// BodyPresent means a present, non-empty payload.
	BodyPresent
)

func (s BodyState) String() string {
	switch s {
	case BodyMissing:
		return "Missing"
	case BodyNull:
		return "Null"
	case BodyEmpty:
		return "Empty"
	case BodyPresent:
		return "Present"
	default:
		return "Unknown"
	}
}

// OptionalBody is the tagged representation of a request or response
// body described in spec §3: Missing, Null, Empty, or Present(bytes).
// A Present body carries its raw bytes plus a derived mime type.
type OptionalBody struct {
	state    BodyState
	bytes    []byte
	mimeType string
}

// Missing returns a body in the Missing state.
func Missing() OptionalBody { return OptionalBody{state: BodyMissing} }

// Null returns a body in the Null state.
func Null() OptionalBody { return OptionalBody{state: BodyNull} }

// Empty returns a body in the Empty state (present, zero bytes).
func Empty() OptionalBody { return OptionalBody{state: BodyEmpty, mimeType: "text/plain"} }

// Present returns a body with the given bytes, deriving its mime type
// from contentType if non-empty, else sniffing the first bytes of data.
func Present(data []byte, contentType string) OptionalBody {
	if len(data) == 0 {
		return Empty()
	}
	mt := contentType
	if mt == "" {
		mt = SniffMimeType(data)
	} else {
		mt = stripParameters(mt)
	}
	return OptionalBody{state: BodyPresent, bytes: data, mimeType: mt}
}

// State returns which of the four tagged states the body is in.
func (b OptionalBody) State() BodyState { return b.state }

// IsMissing reports whether the body is in the Missing state.
func (b OptionalBody) IsMissing() bool { return b.state == BodyMissing }

// IsNull reports whether the body is in the Null state.
func (b OptionalBody) IsNull() bool { return b.state == BodyNull }

// IsEmpty reports whether the body is in the Empty state.
func (b OptionalBody) IsEmpty() bool { return b.state == BodyEmpty }

// IsPresent reports whether the body carries actual bytes.
func (b OptionalBody) IsPresent() bool { return b.state == BodyPresent }

// Bytes returns the raw payload. Empty for any state other than
// Present or Empty.
func (b OptionalBody) Bytes() []byte { return b.bytes }

// MimeType returns the derived or declared mime type. Empty unless the
// body is Present or Empty.
func (b OptionalBody) MimeType() string { return b.mimeType }

func stripParameters(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.TrimSpace(strings.ToLower(contentType))
}

var jsonPrefixPattern = regexp.MustCompile(`^\s*(\{|\[|"|-?\d|true|false|null)`)

// SniffMimeType inspects the first ~32 bytes of data against XML, HTML,
// JSON and text prefixes in that order, per spec §4.1.
func SniffMimeType(data []byte) string {
	head := data
	if len(head) > 32 {
		head = head[:32]
	}
	trimmed := bytes.TrimLeft(head, " \t\r\n")

	if bytes.HasPrefix(trimmed, []byte("<?xml")) {
		return "application/xml"
	}
	lower := bytes.ToLower(trimmed)
	if bytes.HasPrefix(lower, []byte("<!doctype")) || bytes.HasPrefix(lower, []byte("<html")) {
		return "text/html"
	}
	if jsonPrefixPattern.Match(trimmed) {
		return "application/json"
	}
	if len(trimmed) > 0 && trimmed[0] == '<' {
		return "application/xml"
	}
	return "text/plain"
}
