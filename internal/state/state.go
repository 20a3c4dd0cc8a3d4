// Package state persists the small pieces of UI state that survive restarts,
// currently the namespaces the user has visited per kube context.
package state

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Mockable for tests.
var osUserHomeDir = os.UserHomeDir

// AppState is the on-disk document at ~/.config/kr/config.yaml.
type AppState struct {
	// Namespaces maps a kube context name to the namespaces remembered
	// for it, kept sorted and deduplicated.
	Namespaces map[string][]string `yaml:"namespaces"`
}

func New() *AppState {
	return &AppState{Namespaces: map[string][]string{}}
}

func statePath() (string, error) {
	home, err := osUserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".config", "kr", "config.yaml"), nil
}

// Load reads the persisted state. A missing file yields an empty state, not
// an error; a corrupt file is an error so we never silently clobber it.
func Load() (*AppState, error) {
	path, err := statePath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading state file: %w", err)
	}
	st := New()
	if err := yaml.Unmarshal(data, st); err != nil {
		return nil, fmt.Errorf("parsing state file %s: %w", path, err)
	}
	if st.Namespaces == nil {
		st.Namespaces = map[string][]string{}
	}
	return st, nil
}

// Save writes the state atomically (tmp file + rename) with 0600 perms.
func (s *AppState) Save() error {
	path, err := statePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing state file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing state file: %w", err)
	}
	return nil
}

// Add remembers a namespace for a context. Returns true if it was new.
func (s *AppState) Add(context, namespace string) bool {
	existing := s.Namespaces[context]
	for _, ns := range existing {
		if ns == namespace {
			return false
		}
	}
	existing = append(existing, namespace)
	sort.Strings(existing)
	s.Namespaces[context] = existing
	return true
}

// Merge folds freshly discovered namespaces into the remembered set and
// returns the sorted union. Returns changed=true if anything new appeared.
func (s *AppState) Merge(context string, discovered []string) (merged []string, changed bool) {
	seen := map[string]struct{}{}
	for _, ns := range s.Namespaces[context] {
		seen[ns] = struct{}{}
	}
	for _, ns := range discovered {
		if _, ok := seen[ns]; !ok {
			seen[ns] = struct{}{}
			changed = true
		}
	}
	merged = make([]string, 0, len(seen))
	for ns := range seen {
		merged = append(merged, ns)
	}
	sort.Strings(merged)
	if changed {
		s.Namespaces[context] = merged
	}
	return merged, changed
}

// For returns the remembered namespaces for a context.
func (s *AppState) For(context string) []string {
	return s.Namespaces[context]
}
