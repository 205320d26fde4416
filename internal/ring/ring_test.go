package ring

import (
	"reflect"
	"testing"
)

func TestPush_KeepsLastCapacityItems(t *testing.T) {
	for _, capacity := range []int{1, 2, 3, 7} {
		for n := 0; n <= 3*capacity; n++ {
			b := New[int](capacity)
			for i := 0; i < n; i++ {
				b.Push(i)
			}

			want := []int{}
			for i := max(0, n-capacity); i < n; i++ {
				want = append(want, i)
			}

			got := b.Slice()
			if len(got) != min(n, capacity) {
				t.Fatalf("cap=%d n=%d: len=%d", capacity, n, len(got))
			}
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("cap=%d n=%d: got %v want %v", capacity, n, got, want)
			}
			if b.Len() != len(want) {
				t.Fatalf("cap=%d n=%d: Len()=%d", capacity, n, b.Len())
			}
		}
	}
}

func TestSlice_IsACopy(t *testing.T) {
	b := New[string](2)
	b.Push("a")
	b.Push("b")

	snap := b.Slice()
	b.Push("c")
	snap[0] = "mutated"

	if !reflect.DeepEqual(b.Slice(), []string{"b", "c"}) {
		t.Fatalf("buffer changed through snapshot: %v", b.Slice())
	}
	if snap[1] != "b" {
		t.Fatalf("snapshot changed after push: %v", snap)
	}
}

func TestReversed(t *testing.T) {
	b := New[int](3)
	for i := 1; i <= 5; i++ {
		b.Push(i)
	}
	if got := b.Reversed(); !reflect.DeepEqual(got, []int{5, 4, 3}) {
		t.Fatalf("got %v", got)
	}
}

func TestNew_PanicsOnZeroCapacity(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	New[int](0)
}
