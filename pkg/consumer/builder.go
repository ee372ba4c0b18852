package consumer

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/pactgo/pact/pkg/mockserver"
	"github.com/pactgo/pact/pkg/pact"
)

// Builder assembles a Pact one interaction at a time and drives a mock
// server over it for the duration of a consumer test (spec §4.6, §7).
type Builder struct {
	pact    *pact.Pact
	pending *interactionBuilder
	pactDir string
}

type interactionBuilder struct {
	description string
	states      []pact.ProviderState
	request     *RequestBuilder
	response    *ResponseBuilder
}

// New starts a Builder for one consumer/provider pair at the given
// specification version.
func New(consumer, provider string, spec pact.Specification) *Builder {
	return &Builder{pact: pact.NewPact(consumer, provider, spec), pactDir: "pacts"}
}

// WithPactDir overrides the directory ExecuteTest writes the pact file
// to on a clean verification. Defaults to "pacts".
func (b *Builder) WithPactDir(dir string) *Builder {
	b.pactDir = dir
	return b
}

// Given declares a provider state precondition for the interaction
// under construction.
func (b *Builder) Given(state string) *Builder {
	b.ensurePending()
	b.pending.states = append(b.pending.states, pact.ProviderState{Name: state})
	return b
}

// GivenWithParams is Given with structured state parameters (V3).
func (b *Builder) GivenWithParams(state string, params map[string]interface{}) *Builder {
	b.ensurePending()
	b.pending.states = append(b.pending.states, pact.ProviderState{Name: state, Params: params})
	return b
}

// UponReceiving names the interaction under construction. Description
// must be unique within the Pact (spec §3).
func (b *Builder) UponReceiving(description string) *Builder {
	b.ensurePending()
	b.pending.description = description
	return b
}

// WithRequest configures the expected request of the interaction under
// construction via fn.
func (b *Builder) WithRequest(fn func(*RequestBuilder)) *Builder {
	b.ensurePending()
	fn(b.pending.request)
	return b
}

// WillRespondWith configures the canned response via fn and appends
// the now-complete interaction to the Pact under construction.
func (b *Builder) WillRespondWith(fn func(*ResponseBuilder)) *Builder {
	b.ensurePending()
	fn(b.pending.response)
	b.finishPending()
	return b
}

func (b *Builder) ensurePending() {
	if b.pending == nil {
		b.pending = &interactionBuilder{
			request:  newRequestBuilder(),
			response: newResponseBuilder(),
		}
	}
}

func (b *Builder) finishPending() {
	if b.pending == nil {
		return
	}
	b.pact.Interactions = append(b.pact.Interactions, &pact.Interaction{
		Type:           pact.InteractionHTTP,
		Description:    b.pending.description,
		ProviderStates: b.pending.states,
		Request:        b.pending.request.build(),
		Response:       b.pending.response.build(),
	})
	b.pending = nil
}

// Pact returns the Pact assembled so far.
func (b *Builder) Pact() *pact.Pact { return b.pact }

// ExecuteTest starts a mock server for the Pact assembled so far, calls
// fn with its base URL so the test can exercise the consumer code under
// test, then checks that every interaction was exercised exactly as
// described. A clean run writes the pact file to WithPactDir's
// directory; any mismatch fails t with a formatted report instead —
// unless t has already failed for some other reason, in which case the
// report goes to stderr only, so a genuine assertion failure in fn
// isn't obscured by a secondary pact mismatch (spec §7).
func (b *Builder) ExecuteTest(t *testing.T, fn func(baseURL string)) {
	t.Helper()

	srv := mockserver.New(b.pact)
	startCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	port, err := srv.Start(startCtx, 0)
	cancel()
	if err != nil {
		t.Fatalf("consumer: failed to start mock server: %v", err)
		return
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	fn(fmt.Sprintf("http://127.0.0.1:%d", port))

	if srv.Matched() {
		if err := srv.WritePact(b.pactDir); err != nil {
			t.Fatalf("consumer: failed to write pact file: %v", err)
		}
		return
	}

	report := formatMismatches(srv.Mismatches())
	if t.Failed() {
		fmt.Fprintln(os.Stderr, report)
		return
	}
	t.Fatalf("consumer: interactions did not match:\n%s", report)
}

func formatMismatches(attempts []mockserver.MatchAttempt) string {
	var b strings.Builder
	for _, a := range attempts {
		switch a.Kind {
		case mockserver.MissingRequest:
			fmt.Fprintf(&b, "- never received: %s\n", a.Interaction.Description)
		case mockserver.RequestMismatch:
			fmt.Fprintf(&b, "- %s %s mismatched interaction %q:\n", a.Method, a.Path, a.Interaction.Description)
			for _, m := range a.Mismatches {
				fmt.Fprintf(&b, "    %s\n", m.String())
			}
		case mockserver.RequestNotFound:
			fmt.Fprintf(&b, "- %s %s matched no interaction\n", a.Method, a.Path)
		}
	}
	return b.String()
}
