package reduction

import (
	"sort"
	"sync"

	"github.com/Kanokkarn13/carbon-clean-app-sub000/core/model"
)

// Store keeps reduction records. Records are read-only after creation;
// deletion is the only mutation.
type Store interface {
	Add(model.ReductionRecord)
	List(userID string) []model.ReductionRecord
	Delete(id string) bool
}

// MemoryStore is a mutex-guarded in-process Store.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]model.ReductionRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]model.ReductionRecord{}}
}

func (s *MemoryStore) Add(r model.ReductionRecord) {
	s.mu.Lock()
	s.data[r.ID] = r
	s.mu.Unlock()
}

func (s *MemoryStore) List(userID string) []model.ReductionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]model.ReductionRecord, 0, len(s.data))
	for _, r := range s.data {
		if userID != "" && r.UserID != userID {
			continue
		}
		res = append(res, r)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

func (s *MemoryStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[id]; !ok {
		return false
	}
	delete(s.data, id)
	return true
}
