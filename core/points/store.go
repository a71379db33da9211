package points

import (
	"sort"
	"sync"
	"time"
)

// Award is one granted point score, ready for the persistence collaborator.
type Award struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id,omitempty"`
	Activity   string    `json:"activity"`
	Points     int       `json:"points"`
	DistanceKm float64   `json:"distance_km,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Filter narrows Store listings.
type Filter struct {
	UserID   string
	Activity string
}

// Store keeps awarded points.
type Store interface {
	Add(Award)
	List(Filter) []Award
	Total(userID string) int
}

// MemoryStore is a mutex-guarded in-process Store.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]Award
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]Award{}}
}

func (s *MemoryStore) Add(a Award) {
	s.mu.Lock()
	s.data[a.ID] = a
	s.mu.Unlock()
}

func (s *MemoryStore) List(f Filter) []Award {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]Award, 0, len(s.data))
	for _, a := range s.data {
		if f.UserID != "" && a.UserID != f.UserID {
			continue
		}
		if f.Activity != "" && a.Activity != f.Activity {
			continue
		}
		res = append(res, a)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

func (s *MemoryStore) Total(userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, a := range s.data {
		if userID == "" || a.UserID == userID {
			total += a.Points
		}
	}
	return total
}
