package engine

import "sort"

// IDLister exposes the ids currently displayed. Collection implements it.
type IDLister interface {
	IDs() []int64
}

// Selection is the set of entity ids marked for a bulk operation. It is
// independent of the filter: stale ids stay in the set and simply stop
// rendering when they fall off the displayed page.
type Selection struct {
	ids map[int64]struct{}
}

func NewSelection() *Selection {
	return &Selection{ids: make(map[int64]struct{})}
}

func (s *Selection) Add(id int64) {
	s.ids[id] = struct{}{}
}

func (s *Selection) Remove(id int64) {
	delete(s.ids, id)
}

// Toggle includes or excludes id.
func (s *Selection) Toggle(id int64, included bool) {
	if included {
		s.Add(id)
		return
	}
	s.Remove(id)
}

// Flip inverts the membership of id and reports whether it is now selected.
func (s *Selection) Flip(id int64) bool {
	included := !s.Has(id)
	s.Toggle(id, included)
	return included
}

// SetAll replaces the selection with ids.
func (s *Selection) SetAll(ids []int64) {
	next := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		next[id] = struct{}{}
	}
	s.ids = next
}

// ReplaceWithEntireCollection selects every id currently displayed, and
// only those. Select-all is page scoped.
func (s *Selection) ReplaceWithEntireCollection(displayed IDLister) {
	s.SetAll(displayed.IDs())
}

func (s *Selection) ReplaceWithEmpty() {
	s.Clear()
}

// Clear empties the selection. Clearing an empty selection changes nothing.
func (s *Selection) Clear() {
	if len(s.ids) == 0 {
		return
	}
	s.ids = make(map[int64]struct{})
}

func (s *Selection) Has(id int64) bool {
	_, ok := s.ids[id]
	return ok
}

func (s *Selection) Len() int {
	return len(s.ids)
}

func (s *Selection) IsEmpty() bool {
	return len(s.ids) == 0
}

// IDs returns the selected ids in ascending order.
func (s *Selection) IDs() []int64 {
	out := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Visible returns how many selected ids are among displayed.
func (s *Selection) Visible(displayed IDLister) int {
	n := 0
	for _, id := range displayed.IDs() {
		if s.Has(id) {
			n++
		}
	}
	return n
}
