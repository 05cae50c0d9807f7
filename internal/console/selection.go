package console

import "slices"

// Selection is the set of user ids ticked in the table. Every method
// returns a new Selection and leaves the receiver untouched.
type Selection struct {
	ids map[int64]struct{}
}

func NewSelection(ids ...int64) Selection {
	s := Selection{ids: make(map[int64]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

func (s Selection) Has(id int64) bool {
	_, ok := s.ids[id]
	return ok
}

func (s Selection) Len() int { return len(s.ids) }

// IDs returns the selected ids in ascending order.
func (s Selection) IDs() []int64 {
	out := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

func (s Selection) Toggle(id int64) Selection {
	next := s.clone()
	if _, ok := next.ids[id]; ok {
		delete(next.ids, id)
	} else {
		next.ids[id] = struct{}{}
	}
	return next
}

// SelectAll replaces the selection with exactly ids.
func (s Selection) SelectAll(ids []int64) Selection {
	return NewSelection(ids...)
}

func (s Selection) Clear() Selection {
	return NewSelection()
}

// Retain drops every selected id that is not in ids.
func (s Selection) Retain(ids []int64) Selection {
	next := NewSelection()
	for _, id := range ids {
		if s.Has(id) {
			next.ids[id] = struct{}{}
		}
	}
	return next
}

// AllOf reports whether ids is non-empty and every id in it is selected.
func (s Selection) AllOf(ids []int64) bool {
	if len(ids) == 0 {
		return false
	}
	for _, id := range ids {
		if !s.Has(id) {
			return false
		}
	}
	return true
}

func (s Selection) clone() Selection {
	next := Selection{ids: make(map[int64]struct{}, len(s.ids)+1)}
	for id := range s.ids {
		next.ids[id] = struct{}{}
	}
	return next
}
