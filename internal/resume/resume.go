package resume

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/maxvaer/openredirx/internal/scanner"
)

// State tracks which (target, payload) pairs have been fetched so an
// interrupted run can skip them.
type State struct {
	Keyword        string   `json:"keyword"`
	CompletedPairs []string `json:"completed_pairs"`
	TotalPairs     int      `json:"total_pairs"`

	mu   sync.Mutex
	path string
	done map[string]struct{}
}

// New creates a new empty resume state that will be saved to the given path.
func New(path, keyword string, totalPairs int) *State {
	return &State{
		Keyword:    keyword,
		TotalPairs: totalPairs,
		path:       path,
		done:       make(map[string]struct{}),
	}
}

// Load reads an existing resume state from disk. Returns nil if the file
// does not exist.
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading resume file: %w", err)
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing resume file: %w", err)
	}

	s.path = path
	s.done = make(map[string]struct{}, len(s.CompletedPairs))
	for _, k := range s.CompletedPairs {
		s.done[k] = struct{}{}
	}
	return &s, nil
}

// Len returns the number of completed pairs.
func (s *State) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.done)
}

// MarkCompleted records item as done.
func (s *State) MarkCompleted(item scanner.WorkItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := item.Key()
	if _, ok := s.done[k]; !ok {
		s.done[k] = struct{}{}
		s.CompletedPairs = append(s.CompletedPairs, k)
	}
}

// Save writes the current state to disk.
func (s *State) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("serializing resume state: %w", err)
	}
	return os.WriteFile(s.path, data, 0644)
}

// FilterRemaining returns the items that have not been completed yet,
// preserving order.
func (s *State) FilterRemaining(items []scanner.WorkItem) []scanner.WorkItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	remaining := make([]scanner.WorkItem, 0, len(items))
	for _, item := range items {
		if _, ok := s.done[item.Key()]; !ok {
			remaining = append(remaining, item)
		}
	}
	return remaining
}

// Remove deletes the resume file (called on successful completion).
func (s *State) Remove() error {
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
