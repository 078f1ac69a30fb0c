package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/julianstephens/timebox/internal/history"
	"github.com/julianstephens/timebox/internal/models"
)

type ownerPlans struct {
	Days  map[string]history.DaySnapshot  `json:"days"`  // id -> snapshot
	Weeks map[string]history.WeekSnapshot `json:"weeks"` // id -> snapshot
}

type fileData struct {
	Version  int                    `json:"version"`
	Settings models.Settings        `json:"settings"`
	Owners   map[string]*ownerPlans `json:"owners"`
}

// JSONStore keeps everything in a single JSON file, rewritten on each change.
type JSONStore struct {
	path string
	now  func() time.Time

	mu   sync.Mutex
	data *fileData
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{
		path: path,
		now:  time.Now,
	}
}

func (s *JSONStore) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = &fileData{
		Version:  1,
		Settings: models.DefaultSettings(),
		Owners:   make(map[string]*ownerPlans),
	}
	return s.flush()
}

func (s *JSONStore) Load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotInitialized
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	data := &fileData{}
	if err := json.Unmarshal(raw, data); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if data.Owners == nil {
		data.Owners = make(map[string]*ownerPlans)
	}

	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

// flush writes the file through a temp file and rename. Callers hold mu.
func (s *JSONStore) flush() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

func (s *JSONStore) owner(id string, create bool) *ownerPlans {
	o, ok := s.data.Owners[id]
	if !ok && create {
		o = &ownerPlans{
			Days:  make(map[string]history.DaySnapshot),
			Weeks: make(map[string]history.WeekSnapshot),
		}
		s.data.Owners[id] = o
	}
	if o != nil {
		if o.Days == nil {
			o.Days = make(map[string]history.DaySnapshot)
		}
		if o.Weeks == nil {
			o.Weeks = make(map[string]history.WeekSnapshot)
		}
	}
	return o
}

func (s *JSONStore) GetSettings() (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return models.Settings{}, ErrNotLoaded
	}
	return s.data.Settings, nil
}

func (s *JSONStore) SaveSettings(settings models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return ErrNotLoaded
	}
	s.data.Settings = settings
	return s.flush()
}

func (s *JSONStore) SaveDayPlan(owner string, snap history.DaySnapshot) error {
	if err := CheckDayKey(owner, snap); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return ErrNotLoaded
	}

	o := s.owner(owner, true)
	created := snap.CreatedAt
	if prev, ok := o.Days[snap.ID]; ok {
		if prev.Date != snap.Date {
			return fmt.Errorf("%w: %s is saved for %s", ErrKeyMoved, snap.ID, prev.Date)
		}
		created = prev.CreatedAt
	} else {
		for _, prev := range o.Days {
			if prev.Date == snap.Date {
				created = prev.CreatedAt
			}
		}
	}
	for id, prev := range o.Days {
		if prev.Date == snap.Date && id != snap.ID {
			delete(o.Days, id)
		}
	}
	if created.IsZero() {
		created = s.now()
	}

	snap.CreatedAt = created.UTC()
	o.Days[snap.ID] = snap
	return s.flush()
}

func (s *JSONStore) GetDayPlan(owner, id string) (history.DaySnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return history.DaySnapshot{}, ErrNotLoaded
	}

	if o := s.owner(owner, false); o != nil {
		if snap, ok := o.Days[id]; ok {
			return snap, nil
		}
	}
	return history.DaySnapshot{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (s *JSONStore) GetDayPlans(owner string) ([]history.DaySnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, ErrNotLoaded
	}

	out := []history.DaySnapshot{}
	if o := s.owner(owner, false); o != nil {
		for _, snap := range o.Days {
			out = append(out, snap)
		}
	}
	SortDaysNewestFirst(out)
	return out, nil
}

func (s *JSONStore) DeleteDayPlan(owner, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return ErrNotLoaded
	}

	o := s.owner(owner, false)
	if o == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if _, ok := o.Days[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(o.Days, id)
	return s.flush()
}

func (s *JSONStore) SaveWeeklyPlan(owner string, snap history.WeekSnapshot) error {
	if err := CheckWeekKey(owner, snap); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return ErrNotLoaded
	}

	o := s.owner(owner, true)
	created := snap.CreatedAt
	if prev, ok := o.Weeks[snap.ID]; ok {
		if prev.WeekStart != snap.WeekStart {
			return fmt.Errorf("%w: %s is saved for the week of %s", ErrKeyMoved, snap.ID, prev.WeekStart)
		}
		created = prev.CreatedAt
	} else {
		for _, prev := range o.Weeks {
			if prev.WeekStart == snap.WeekStart {
				created = prev.CreatedAt
			}
		}
	}
	for id, prev := range o.Weeks {
		if prev.WeekStart == snap.WeekStart && id != snap.ID {
			delete(o.Weeks, id)
		}
	}
	if created.IsZero() {
		created = s.now()
	}

	snap.CreatedAt = created.UTC()
	o.Weeks[snap.ID] = snap
	return s.flush()
}

func (s *JSONStore) GetWeeklyPlan(owner, id string) (history.WeekSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return history.WeekSnapshot{}, ErrNotLoaded
	}

	if o := s.owner(owner, false); o != nil {
		if snap, ok := o.Weeks[id]; ok {
			return snap, nil
		}
	}
	return history.WeekSnapshot{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (s *JSONStore) GetWeeklyPlans(owner string) ([]history.WeekSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, ErrNotLoaded
	}

	out := []history.WeekSnapshot{}
	if o := s.owner(owner, false); o != nil {
		for _, snap := range o.Weeks {
			out = append(out, snap)
		}
	}
	SortWeeksNewestFirst(out)
	return out, nil
}

func (s *JSONStore) DeleteWeeklyPlan(owner, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return ErrNotLoaded
	}

	o := s.owner(owner, false)
	if o == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if _, ok := o.Weeks[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(o.Weeks, id)
	return s.flush()
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
