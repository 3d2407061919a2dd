package preset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"FwdProjector/internal/analyzer"
	"FwdProjector/internal/model"
)

// Store keeps named trigger presets in a JSON state file so the CLI, watch
// mode and Telegram commands share one set of saved configurations.
type Store struct {
	mu      sync.Mutex
	path    string
	presets map[string]analyzer.Params
}

// defaults are seeded on first run.
func defaults() map[string]analyzer.Params {
	return map[string]analyzer.Params{
		"crash-2d": {
			Condition: model.TriggerCondition{Kind: model.TriggerCumulativeMove, WindowDays: 2, ThresholdPct: -6},
		},
		"slide-3d": {
			Condition: model.TriggerCondition{Kind: model.TriggerCumulativeMove, WindowDays: 3, ThresholdPct: -8},
		},
		"melt-up-5d": {
			Condition: model.TriggerCondition{Kind: model.TriggerCumulativeMove, WindowDays: 5, ThresholdPct: 8},
		},
		"gap-reversal": {
			Condition: model.TriggerCondition{Kind: model.TriggerOpenCloseReversal, OpenUpPct: 1, CloseDownPct: 1},
		},
	}
}

// NewStore loads presets from filePath, seeding and persisting the defaults
// when the file does not exist yet.
func NewStore(filePath string) (*Store, error) {
	s := &Store{path: filePath, presets: defaults()}

	data, err := os.ReadFile(filePath)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read presets: %w", err)
	}
	if len(data) > 0 {
		loaded := make(map[string]analyzer.Params)
		if err := json.Unmarshal(data, &loaded); err != nil {
			return nil, fmt.Errorf("parse presets: %w", err)
		}
		s.presets = loaded
	}

	if err := s.save(); err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns a copy of the named preset.
func (s *Store) Get(name string) (analyzer.Params, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.presets[name]
	if ok {
		p.Horizons = append([]int(nil), p.Horizons...)
	}
	return p, ok
}

// Names returns the preset names, sorted.
func (s *Store) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.presets))
	for name := range s.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Set validates, stores and persists a preset.
func (s *Store) Set(name string, p analyzer.Params) error {
	if name == "" {
		return fmt.Errorf("preset name must not be empty")
	}
	if err := p.WithDefaults().Validate(); err != nil {
		return fmt.Errorf("preset %s: %w", name, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.presets[name] = p
	return s.save()
}

// save persists the current presets. Caller holds the lock except during NewStore.
func (s *Store) save() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create preset dir: %w", err)
		}
	}
	data, err := json.MarshalIndent(s.presets, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal presets: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write presets: %w", err)
	}
	return nil
}
