package pact

// Pact is the root document: one consumer's expectations of one
// provider, as a set of Interactions plus document metadata (spec §3).
type Pact struct {
	Consumer      string
	Provider      string
	Interactions  []*Interaction
	Specification Specification
	Metadata      map[string]interface{}
}

// NewPact returns an empty Pact between consumer and provider at the
// given specification version.
func NewPact(consumer, provider string, spec Specification) *Pact {
	return &Pact{
		Consumer:      consumer,
		Provider:      provider,
		Specification: spec,
		Metadata:      map[string]interface{}{},
	}
}

// FindInteraction returns the interaction with the given key (spec
// §4.3's description+provider-state identity), or nil if absent.
func (p *Pact) FindInteraction(key string) *Interaction {
	for _, i := range p.Interactions {
		if i.Key() == key {
			return i
		}
	}
	return nil
}

// Clone returns an independent deep copy of the Pact and all of its
// Interactions.
func (p *Pact) Clone() *Pact {
	if p == nil {
		return nil
	}
	out := &Pact{
		Consumer:      p.Consumer,
		Provider:      p.Provider,
		Specification: p.Specification,
		Interactions:  make([]*Interaction, len(p.Interactions)),
	}
	for i, interaction := range p.Interactions {
		out.Interactions[i] = interaction.Clone()
	}
	if p.Metadata != nil {
		out.Metadata = make(map[string]interface{}, len(p.Metadata))
		for k, v := range p.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}
