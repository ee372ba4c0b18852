package mockserver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pactgo/pact/pkg/pact"
)

// pactFileLocks serializes overlapping WritePact calls that target the
// same path within this process, per spec §5's "Pact file writes
// acquire an external filesystem lock scoped to the target path".
var (
	pactFileLocksMu sync.Mutex
	pactFileLocks   = make(map[string]*sync.Mutex)
)

func lockFor(path string) *sync.Mutex {
	pactFileLocksMu.Lock()
	defer pactFileLocksMu.Unlock()
	l, ok := pactFileLocks[path]
	if !ok {
		l = &sync.Mutex{}
		pactFileLocks[path] = l
	}
	return l
}

// PactFilePath returns the canonical file path for a consumer/provider
// pair within dir, per spec §6: "<dir>/<consumer.name>-<provider.name>
// .json", lowercased and spaces replaced with underscores.
func PactFilePath(dir, consumer, provider string) string {
	name := fmt.Sprintf("%s-%s.json", sanitizeName(consumer), sanitizeName(provider))
	return filepath.Join(dir, name)
}

func sanitizeName(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "_")
}

// WritePact writes the server's pact to <dir>/<consumer>-<provider>
// .json, merging with an existing file if one is present (spec §4.3).
// Interactions are deduplicated by description+provider-state; a
// structural conflict between the existing and the new interaction
// fails with *pact.MergeConflict rather than silently picking one.
func (s *MockServer) WritePact(dir string) error {
	path := PactFilePath(dir, s.pact.Consumer, s.pact.Provider)
	lock := lockFor(path)
	lock.Lock()
	defer lock.Unlock()

	toWrite := s.pact
	if existingBytes, err := os.ReadFile(path); err == nil {
		existing, err := pact.Parse(existingBytes)
		if err != nil {
			return fmt.Errorf("mockserver: write_pact: existing file %s: %w", path, err)
		}
		merged, err := pact.Merge(existing, s.pact)
		if err != nil {
			return err
		}
		toWrite = merged
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("mockserver: write_pact: %w", err)
	}

	data, err := pact.Marshal(toWrite)
	if err != nil {
		return fmt.Errorf("mockserver: write_pact: marshal: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mockserver: write_pact: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("mockserver: write_pact: %w", err)
	}
	s.log.Info("pact written", "id", s.id, "path", path)
	return nil
}
