package rope

import (
	"bytes"
	"testing"
	"testing/quick"
)

func TestNewIsEmpty(t *testing.T) {
	r := New()
	if r.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", r.Len())
	}
	got, err := r.Collect(0, 0)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Collect(0,0) = %q, want empty", got)
	}
}

func TestInsertAppendsAndInserts(t *testing.T) {
	r := New()
	if err := r.InsertAt(0, []byte("Hello, ")); err != nil {
		t.Fatal(err)
	}
	if err := r.InsertAt(r.Len(), []byte("world!")); err != nil {
		t.Fatal(err)
	}
	got, err := r.Collect(0, r.Len())
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "Hello, world!" {
		t.Fatalf("Collect = %q", got)
	}
	if r.Len() != 13 {
		t.Fatalf("Len() = %d, want 13", r.Len())
	}
}

func TestInsertMiddle(t *testing.T) {
	r := FromBytes([]byte("Helloworld"))
	if err := r.InsertAt(5, []byte(", ")); err != nil {
		t.Fatal(err)
	}
	got, _ := r.Collect(0, r.Len())
	if string(got) != "Hello, world" {
		t.Fatalf("got %q", got)
	}
}

func TestRemoveRange(t *testing.T) {
	r := FromBytes([]byte("Hello, world!"))
	if err := r.RemoveRange(5, 12); err != nil {
		t.Fatal(err)
	}
	got, _ := r.Collect(0, r.Len())
	if string(got) != "Hello!" {
		t.Fatalf("got %q", got)
	}
}

// TestRemoveAcrossBoundary builds a tree with an internal split point in
// the middle of the removed range, at several depths, to exercise the
// empty-child promotion rule.
func TestRemoveAcrossBoundary(t *testing.T) {
	// Force many internal splits: insert at offset 0 repeatedly so the
	// tree grows lopsided with several internal levels.
	chunks := []string{"aaaa", "bbbb", "cccc", "dddd", "eeee", "ffff"}
	build := func() *Rope {
		r := New()
		for _, c := range chunks {
			if err := r.InsertAt(0, []byte(c)); err != nil {
				t.Fatal(err)
			}
		}
		return r
	}
	full := "ffffeeeeddddccccbbbbaaaa"

	for start := 0; start < len(full); start++ {
		for end := start; end <= len(full); end++ {
			rr := build()
			if err := rr.RemoveRange(start, end); err != nil {
				t.Fatalf("RemoveRange(%d,%d): %v", start, end, err)
			}
			got, _ := rr.Collect(0, rr.Len())
			wantStr := full[:start] + full[end:]
			if string(got) != wantStr {
				t.Fatalf("RemoveRange(%d,%d) = %q, want %q", start, end, got, wantStr)
			}
		}
	}
}

func TestRemoveEntireRopeLeavesEmptyRoot(t *testing.T) {
	r := FromBytes([]byte("abc"))
	if err := r.RemoveRange(0, 3); err != nil {
		t.Fatal(err)
	}
	if r.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", r.Len())
	}
	got, err := r.Collect(0, 0)
	if err != nil || len(got) != 0 {
		t.Fatalf("Collect after full remove: %q, %v", got, err)
	}
}

func TestCollectOutOfRangeFailsNotClamps(t *testing.T) {
	r := FromBytes([]byte("abc"))
	if _, err := r.Collect(0, 4); err != ErrOutOfRange {
		t.Fatalf("Collect(0,4) err = %v, want ErrOutOfRange", err)
	}
	if _, err := r.Collect(2, 1); err != ErrOutOfRange {
		t.Fatalf("Collect(2,1) err = %v, want ErrOutOfRange", err)
	}
}

func TestInsertOutOfRange(t *testing.T) {
	r := FromBytes([]byte("abc"))
	if err := r.InsertAt(4, []byte("x")); err != ErrOutOfRange {
		t.Fatalf("InsertAt(4,...) err = %v, want ErrOutOfRange", err)
	}
}

func TestFlatten(t *testing.T) {
	r := New()
	for i := 0; i < 50; i++ {
		r.InsertAt(0, []byte("x"))
	}
	if err := r.Flatten(); err != nil {
		t.Fatal(err)
	}
	got, _ := r.Collect(0, r.Len())
	if len(got) != 50 {
		t.Fatalf("len = %d, want 50", len(got))
	}
}

func TestSearch(t *testing.T) {
	r := FromBytes([]byte("a.b.c.d"))
	offsets := r.Search('.')
	want := []int{1, 3, 5}
	if len(offsets) != len(want) {
		t.Fatalf("Search = %v, want %v", offsets, want)
	}
	for i := range want {
		if offsets[i] != want[i] {
			t.Fatalf("Search = %v, want %v", offsets, want)
		}
	}
}

// TestRoundTripQuick asserts spec property 1: for any sequence of
// inserts and removes, Collect(0, Len()) reconstructs the same bytes a
// straightforward slice-based reference model would produce.
func TestRoundTripQuick(t *testing.T) {
	f := func(ops []byte) bool {
		r := New()
		var ref []byte

		for i := 0; i+2 < len(ops); i += 3 {
			kind := ops[i] % 2
			switch kind {
			case 0: // insert
				idx := int(ops[i+1]) % (len(ref) + 1)
				b := []byte{ops[i+2]}
				if err := r.InsertAt(idx, b); err != nil {
					return false
				}
				ref = append(ref[:idx], append(append([]byte{}, b...), ref[idx:]...)...)
			case 1: // remove
				if len(ref) == 0 {
					continue
				}
				from := int(ops[i+1]) % len(ref)
				to := from + int(ops[i+2])%(len(ref)-from+1)
				if err := r.RemoveRange(from, to); err != nil {
					return false
				}
				ref = append(ref[:from], ref[to:]...)
			}
		}

		got, err := r.Collect(0, r.Len())
		if err != nil {
			return false
		}
		return bytes.Equal(got, ref)
	}

	if err := quick.Check(f, &quick.Config{MaxCount: 200}); err != nil {
		t.Error(err)
	}
}
