package pact

import "fmt"

// MergeConflict reports that write_pact found two interactions sharing
// a description and provider-state pair but disagreeing about request
// or response content — it cannot tell which one is authoritative, so
// it refuses to pick (spec §4.3, §7).
type MergeConflict struct {
	Description   string
	ProviderState string
}

func (e *MergeConflict) Error() string {
	if e.ProviderState == "" {
		return fmt.Sprintf("pact: conflicting interactions for %q: request/response differ between runs", e.Description)
	}
	return fmt.Sprintf("pact: conflicting interactions for %q (state %q): request/response differ between runs", e.Description, e.ProviderState)
}

// Merge combines an existing on-disk Pact with the interactions
// recorded by the current test run, per write_pact's append-don't-
// clobber contract (spec §4.3): interactions are deduplicated by
// (description, provider states); an interaction appearing in both
// with identical content is kept once; one appearing in both with
// different content is a MergeConflict; everything else from either
// side is carried forward, existing interactions first so successive
// runs converge on a stable interaction order.
func Merge(existing, incoming *Pact) (*Pact, error) {
	if existing == nil {
		return incoming.Clone(), nil
	}
	if incoming == nil {
		return existing.Clone(), nil
	}
	if existing.Consumer != incoming.Consumer || existing.Provider != incoming.Provider {
		return nil, fmt.Errorf("pact: cannot merge pact for %s-%s with pact for %s-%s",
			existing.Consumer, existing.Provider, incoming.Consumer, incoming.Provider)
	}

	spec := existing.Specification
	if incoming.Specification != "" && incoming.Specification != spec {
		spec = maxSpecification(spec, incoming.Specification)
	}

	merged := NewPact(existing.Consumer, existing.Provider, spec)
	seen := make(map[string]bool, len(existing.Interactions))

	for _, e := range existing.Interactions {
		key := e.Key()
		if i := incoming.FindInteraction(key); i != nil {
			if !e.StructurallyEqual(i) {
				return nil, &MergeConflict{Description: e.Description, ProviderState: firstStateName(e)}
			}
		}
		merged.Interactions = append(merged.Interactions, e.Clone())
		seen[key] = true
	}
	for _, i := range incoming.Interactions {
		if seen[i.Key()] {
			continue
		}
		merged.Interactions = append(merged.Interactions, i.Clone())
	}

	for k, v := range existing.Metadata {
		merged.Metadata[k] = v
	}
	for k, v := range incoming.Metadata {
		merged.Metadata[k] = v
	}
	return merged, nil
}

func firstStateName(i *Interaction) string {
	if len(i.ProviderStates) == 0 {
		return ""
	}
	return i.ProviderStates[0].Name
}

var specOrder = map[Specification]int{V1: 0, V1_1: 1, V2: 2, V3: 3}

func maxSpecification(a, b Specification) Specification {
	if specOrder[b] > specOrder[a] {
		return b
	}
	return a
}
