package twoq

import "testing"

// A first-time key lands in A1in; it must be resident but not yet
// promoted to Am.
func TestEngine_NewKeyGoesToA1in(t *testing.T) {
	t.Parallel()

	e := NewWithSizes[string, int](2, 4, 4)
	e.Put("a", 1)

	if !e.Contains("a") {
		t.Fatal("a must be resident")
	}
	if _, ok := e.amIdx["a"]; ok {
		t.Fatal("a must not be in Am yet: it was never accessed again")
	}
	if _, ok := e.inIdx["a"]; !ok {
		t.Fatal("a must be in A1in after its first insert")
	}
}

// When A1in overflows, its LRU candidate is evicted and ghosted, not
// promoted to Am.
func TestEngine_A1inOverflowGhostsOldest(t *testing.T) {
	t.Parallel()

	e := NewWithSizes[string, int](2, 4, 4)
	e.Put("a", 1)
	e.Put("b", 2)
	e.Put("c", 3) // overflow: a is A1in's oldest

	if e.Contains("a") {
		t.Fatal("a must have been evicted from A1in")
	}
	if _, ok := e.ghostIdx["a"]; !ok {
		t.Fatal("a must have been ghosted on A1in eviction")
	}
}

// A Get on an A1in-resident key promotes it into Am.
func TestEngine_GetPromotesA1inToAm(t *testing.T) {
	t.Parallel()

	e := NewWithSizes[string, int](2, 4, 4)
	e.Put("a", 1)

	if v, ok := e.Get("a"); !ok || v != 1 {
		t.Fatalf("want 1, got %v ok=%v", v, ok)
	}
	if _, ok := e.inIdx["a"]; ok {
		t.Fatal("a must have left A1in after a Get")
	}
	if _, ok := e.amIdx["a"]; !ok {
		t.Fatal("a must now be resident in Am")
	}
}

// Re-inserting a key found in the ghost queue bypasses A1in entirely and
// lands straight in Am (2Q's "second chance").
func TestEngine_GhostHitGoesStraightToAm(t *testing.T) {
	t.Parallel()

	e := NewWithSizes[string, int](1, 4, 4)
	e.Put("a", 1)
	e.Put("b", 2) // overflow (capIn=1): a is ghosted

	if _, ok := e.ghostIdx["a"]; !ok {
		t.Fatal("a must be ghosted before the re-insert")
	}

	e.Put("a", 10) // ghost hit

	if _, ok := e.inIdx["a"]; ok {
		t.Fatal("a must NOT re-enter A1in on a ghost hit")
	}
	if n, ok := e.amIdx["a"]; !ok || n.val != 10 {
		t.Fatalf("a must be in Am with its fresh value, got %+v ok=%v", n, ok)
	}
}

// Removing a resident A1in key ghosts it, same as capacity eviction.
func TestEngine_RemoveFromA1inGhosts(t *testing.T) {
	t.Parallel()

	e := NewWithSizes[string, int](2, 4, 4)
	e.Put("a", 1)

	if !e.Remove("a") {
		t.Fatal("Remove a must report true")
	}
	if _, ok := e.ghostIdx["a"]; !ok {
		t.Fatal("removing an A1in-resident key must ghost it")
	}
}

// Removing from Am must not populate the ghost queue.
func TestEngine_RemoveFromAmDoesNotGhost(t *testing.T) {
	t.Parallel()

	e := NewWithSizes[string, int](2, 4, 4)
	e.Put("a", 1)
	e.Get("a") // promote to Am

	if !e.Remove("a") {
		t.Fatal("Remove a must report true")
	}
	if _, ok := e.ghostIdx["a"]; ok {
		t.Fatal("removing an Am-resident key must not ghost it")
	}
}

func TestEngine_GetInto(t *testing.T) {
	t.Parallel()

	e := NewWithSizes[string, int](2, 4, 4)
	e.Put("a", 7)

	var out int
	if !e.GetInto("a", &out) || out != 7 {
		t.Fatalf("GetInto a: want 7, got %d", out)
	}
	out = -1
	if e.GetInto("missing", &out) {
		t.Fatal("GetInto must report miss for an absent key")
	}
	if out != -1 {
		t.Fatal("GetInto must not touch *out on a miss")
	}
}

func TestEngine_Len(t *testing.T) {
	t.Parallel()

	e := New[string, int](8)
	e.Put("a", 1)
	e.Put("b", 2)
	e.Get("a") // moves a into Am, Len must still count it

	if got := e.Len(); got != 2 {
		t.Fatalf("Len want 2, got %d", got)
	}
}
