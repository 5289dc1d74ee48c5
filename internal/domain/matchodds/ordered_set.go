package matchodds

// orderedSet keeps unique strings in insertion order.
type orderedSet struct {
	index  map[string]struct{}
	values []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{index: make(map[string]struct{})}
}

// Add inserts value unless present and reports whether it was added.
func (s *orderedSet) Add(value string) bool {
	if _, ok := s.index[value]; ok {
		return false
	}
	s.index[value] = struct{}{}
	s.values = append(s.values, value)
	return true
}

func (s *orderedSet) Len() int {
	return len(s.values)
}

// Values returns a copy in insertion order.
func (s *orderedSet) Values() []string {
	out := make([]string, len(s.values))
	copy(out, s.values)
	return out
}
