package insight

// Store is the read side used by the insight handler.
type Store interface {
	List() []Insight
	FindByID(id string) (Insight, bool)
	ByPriority(p Priority) []Insight
}

// MemoryStore serves a fixed catalog held in memory.
type MemoryStore struct {
	items []Insight
}

func NewMemoryStore(items []Insight) *MemoryStore {
	return &MemoryStore{items: cloneAll(items)}
}

// List returns every insight in catalog order.
func (s *MemoryStore) List() []Insight {
	return cloneAll(s.items)
}

func (s *MemoryStore) FindByID(id string) (Insight, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return clone(item), true
		}
	}
	return Insight{}, false
}

// ByPriority filters the catalog, keeping catalog order.
func (s *MemoryStore) ByPriority(p Priority) []Insight {
	out := make([]Insight, 0, len(s.items))
	for _, item := range s.items {
		if item.Priority == p {
			out = append(out, clone(item))
		}
	}
	return out
}

func clone(in Insight) Insight {
	in.ActionItems = append([]string(nil), in.ActionItems...)
	return in
}

func cloneAll(items []Insight) []Insight {
	out := make([]Insight, len(items))
	for i, item := range items {
		out[i] = clone(item)
	}
	return out
}
