package structures

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var o = struct{}{}

var checkSetAddTests = map[string]struct {
	add    []string
	out    Set[string]
	non    []string
	sorted []string
}{
	"{}": {
		sorted: []string{},
	},
	"{a}": {
		add:    []string{"a"},
		out:    Set[string]{"a": o},
		non:    []string{"A", "b"},
		sorted: []string{"a"},
	},
	"{a a}": {
		add:    []string{"a", "a"},
		out:    Set[string]{"a": o},
		non:    []string{"b"},
		sorted: []string{"a"},
	},
	"{b a b}": {
		add:    []string{"b", "a", "b"},
		out:    Set[string]{"a": o, "b": o},
		non:    []string{"c"},
		sorted: []string{"a", "b"},
	},
}

func TestSetAdd(t *testing.T) {
	t.Parallel()
	for name, test := range checkSetAddTests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			s := make(Set[string])
			for _, elem := range test.add {
				s.Add(elem)
			}
			if got, want := s, test.out; !cmp.Equal(got, want, cmpopts.EquateEmpty()) {
				t.Errorf("diff (-want +got):\n%+v", cmp.Diff(want, got))
			}

			for _, elem := range test.add {
				if got := s; !got.Has(elem) {
					t.Errorf("got is missing elem: %s", elem)
				}
			}
			for _, elem := range test.non {
				if got := s; got.Has(elem) {
					t.Errorf("got has spurious elem: %s", elem)
				}
			}

			if got, want := Sorted(s), test.sorted; !cmp.Equal(
				got, want, cmpopts.EquateEmpty(),
			) {
				t.Errorf("sorted diff (-want +got):\n%+v", cmp.Diff(want, got))
			}
		})
	}
}

func TestSetRemove(t *testing.T) {
	t.Parallel()

	s := make(Set[string])
	s.Add("a")
	s.Add("b")
	s.Remove("a")
	s.Remove("c")
	if s.Has("a") {
		t.Errorf("got has removed elem: a")
	}
	if !s.Has("b") {
		t.Errorf("got is missing elem: b")
	}
}
