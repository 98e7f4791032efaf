package ocean

import "slices"

// memberSet is an insertion ordered set of uboot ids.
type memberSet struct {
	ids   []string
	index map[string]struct{}
}

func newMemberSet() *memberSet {
	return &memberSet{index: make(map[string]struct{})}
}

func (s *memberSet) add(id string) {
	if _, ok := s.index[id]; ok {
		return
	}
	s.index[id] = struct{}{}
	s.ids = append(s.ids, id)
}

func (s *memberSet) remove(id string) {
	if _, ok := s.index[id]; !ok {
		return
	}
	delete(s.index, id)
	s.ids = slices.DeleteFunc(s.ids, func(v string) bool { return v == id })
}

func (s *memberSet) has(id string) bool {
	_, ok := s.index[id]
	return ok
}

func (s *memberSet) len() int { return len(s.ids) }

func (s *memberSet) list() []string { return slices.Clone(s.ids) }
