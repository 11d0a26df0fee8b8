package lookup

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func res(id string) Result {
	return Result{ID: id, Title: "Title " + id}
}

func TestSelectionSingleReplaces(t *testing.T) {
	s := NewSelection(ModeSingle)
	require.True(t, s.Add(res("a")))
	require.True(t, s.Add(res("b")))

	assert.Equal(t, []string{"b"}, s.IDs())
	first, ok := s.First()
	require.True(t, ok)
	assert.Equal(t, "b", first.ID)
}

func TestSelectionMultiUnique(t *testing.T) {
	s := NewSelection(ModeMulti)
	assert.True(t, s.Add(res("a")))
	assert.False(t, s.Add(res("a")), "duplicate must be ignored")
	assert.True(t, s.Add(res("b")))
	assert.Equal(t, []string{"a", "b"}, s.IDs())

	assert.False(t, s.Remove("zzz"))
	assert.True(t, s.Remove("a"))
	assert.Equal(t, []string{"b"}, s.IDs())
}

func TestSelectionItemsIsCopy(t *testing.T) {
	s := NewSelection(ModeMulti)
	r := res("a")
	r.Fields = map[string]string{"email": "a@example.com"}
	s.Add(r)

	items := s.Items()
	items[0].Title = "mutated"
	items[0].Fields["email"] = "mutated"
	_ = append(items, res("x"))

	again := s.Items()
	require.Len(t, again, 1)
	assert.Equal(t, "Title a", again[0].Title)
	assert.Equal(t, "a@example.com", again[0].Fields["email"])
}

func TestSelectionRemoveKeepsOrder(t *testing.T) {
	s := NewSelection(ModeMulti)
	for _, id := range []string{"a", "b", "c", "d"} {
		s.Add(res(id))
	}
	ids := s.IDs()
	s.Remove("b")
	assert.Equal(t, []string{"a", "c", "d"}, s.IDs())
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids, "earlier snapshot must not change")
}

func TestSelectionClear(t *testing.T) {
	s := NewSelection(ModeMulti)
	assert.False(t, s.Clear())
	s.Add(res("a"))
	assert.True(t, s.Clear())
	assert.Equal(t, 0, s.Len())
	assert.Nil(t, s.Items())
}

// Random add/remove sequences never produce duplicates, and the final size
// equals distinct adds minus effective removals.
func TestSelectionMultiRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 200; round++ {
		s := NewSelection(ModeMulti)
		model := map[string]bool{}
		for step := 0; step < 40; step++ {
			id := fmt.Sprintf("id-%d", rng.Intn(8))
			if rng.Intn(3) == 0 {
				s.Remove(id)
				delete(model, id)
			} else {
				s.Add(res(id))
				model[id] = true
			}
		}
		seen := map[string]bool{}
		for _, id := range s.IDs() {
			require.False(t, seen[id], "duplicate %s in round %d", id, round)
			seen[id] = true
		}
		require.Equal(t, len(model), s.Len(), "round %d", round)
	}
}
