package pact

// InteractionType distinguishes a synchronous HTTP Interaction from a
// V3 asynchronous Message interaction. Message support is gated by
// Specification.SupportsMessages.
type InteractionType string

// Interaction kinds.
const (
	InteractionHTTP    InteractionType = "http"
	InteractionMessage InteractionType = "message"
)

// Interaction is one expected request/response pair inside a Pact,
// optionally preceded by a provider-state precondition. Description
// must be unique within its Pact (spec §3).
type Interaction struct {
	Type           InteractionType
	Description    string
	ProviderStates []ProviderState
	Request        *Request
	Response       *Response

	// Message-only fields (V3).
	MessageContents OptionalBody
	MessageMetadata map[string]string
}

// ProviderState is a named precondition an Interaction requires of the
// provider, optionally carrying structured parameters (V3).
type ProviderState struct {
	Name   string
	Params map[string]interface{}
}

// Key returns the (description, provider-state) pair write_pact's
// merge logic deduplicates interactions by (spec §4.3).
func (i *Interaction) Key() string {
	states := ""
	for idx, ps := range i.ProviderStates {
		if idx > 0 {
			states += "|"
		}
		states += ps.Name
	}
	return i.Description + "\x00" + states
}

// Clone returns an independent deep copy of the interaction. Used when
// a Pact is cloned into a MockServer on start.
func (i *Interaction) Clone() *Interaction {
	if i == nil {
		return nil
	}
	states := make([]ProviderState, len(i.ProviderStates))
	for idx, ps := range i.ProviderStates {
		states[idx].Name = ps.Name
		if ps.Params != nil {
			states[idx].Params = make(map[string]interface{}, len(ps.Params))
			for k, v := range ps.Params {
				states[idx].Params[k] = v
			}
		}
	}
	var metadata map[string]string
	if i.MessageMetadata != nil {
		metadata = make(map[string]string, len(i.MessageMetadata))
		for k, v := range i.MessageMetadata {
			metadata[k] = v
		}
	}
	return &Interaction{
		Type:            i.Type,
		Description:     i.Description,
		ProviderStates:  states,
		Request:         i.Request.Clone(),
		Response:        i.Response.Clone(),
		MessageContents: i.MessageContents,
		MessageMetadata: metadata,
	}
}

// StructurallyEqual reports whether two interactions describe the
// same interaction in every respect beyond identity — used by
// write_pact's merge conflict detection (spec §4.3, §9).
func (i *Interaction) StructurallyEqual(other *Interaction) bool {
	if i == nil || other == nil {
		return i == other
	}
	selfJSON, err1 := MarshalInteraction(i, V3)
	otherJSON, err2 := MarshalInteraction(other, V3)
	if err1 != nil || err2 != nil {
		return false
	}
	return string(selfJSON) == string(otherJSON)
}
