package lookup

// Mode selects single or multi selection semantics.
type Mode int

const (
	// ModeSingle holds at most one result and locks input while selected.
	ModeSingle Mode = iota
	// ModeMulti holds an ordered set of results with unique IDs.
	ModeMulti
)

func (m Mode) String() string {
	switch m {
	case ModeSingle:
		return "single"
	case ModeMulti:
		return "multi"
	default:
		return "unknown"
	}
}

// Selection stores picked results. In single mode Add replaces the sole
// entry; in multi mode it appends unless the ID is already present.
type Selection struct {
	mode  Mode
	items []Result
}

// NewSelection returns an empty selection for the given mode.
func NewSelection(mode Mode) Selection {
	return Selection{mode: mode}
}

// Add records r and reports whether the selection changed.
func (s *Selection) Add(r Result) bool {
	if s.mode == ModeSingle {
		s.items = []Result{r}
		return true
	}
	if s.Contains(r.ID) {
		return false
	}
	s.items = append(s.items, r)
	return true
}

// Remove deletes the entry with the given ID, if any.
func (s *Selection) Remove(id string) bool {
	for i, it := range s.items {
		if it.ID == id {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the selection and reports whether anything was removed.
func (s *Selection) Clear() bool {
	had := len(s.items) > 0
	s.items = nil
	return had
}

// Contains reports whether id is selected.
func (s Selection) Contains(id string) bool {
	for _, it := range s.items {
		if it.ID == id {
			return true
		}
	}
	return false
}

// Len returns the number of selected results.
func (s Selection) Len() int {
	return len(s.items)
}

// Items returns a copy of the selected results in selection order.
func (s Selection) Items() []Result {
	if len(s.items) == 0 {
		return nil
	}
	out := make([]Result, len(s.items))
	for i, it := range s.items {
		out[i] = it.clone()
	}
	return out
}

// IDs returns the selected identifiers in selection order.
func (s Selection) IDs() []string {
	if len(s.items) == 0 {
		return nil
	}
	ids := make([]string, len(s.items))
	for i, it := range s.items {
		ids[i] = it.ID
	}
	return ids
}

// First returns the first selected result (the sole one in single mode).
func (s Selection) First() (Result, bool) {
	if len(s.items) == 0 {
		return Result{}, false
	}
	return s.items[0].clone(), true
}
