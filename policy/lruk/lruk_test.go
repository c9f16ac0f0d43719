package lruk

import "testing"

// A key sighted fewer than K times must not pollute the main cache.
func TestEngine_BelowThreshold_NotAdmitted(t *testing.T) {
	t.Parallel()

	e := New[string, int](4, 16, 3)
	e.Put("a", 1)
	e.Put("a", 2) // 2 sightings, K=3

	if _, ok := e.Get("a"); ok {
		t.Fatal("key must not be admitted before reaching K sightings")
	}
}

// Once a key reaches K sightings it is installed in the main cache.
func TestEngine_AtThreshold_Admitted(t *testing.T) {
	t.Parallel()

	e := New[string, int](4, 16, 3)
	e.Put("a", 1)
	e.Put("a", 2)
	e.Put("a", 3) // 3rd sighting reaches K

	if v, ok := e.Get("a"); !ok || v != 3 {
		t.Fatalf("key must be admitted with latest value 3, got %v ok=%v", v, ok)
	}
}

// Get() also counts as a sighting toward K, although it never installs a
// value itself: the next Put admits the key once the count reaches K.
func TestEngine_GetCountsAsSighting(t *testing.T) {
	t.Parallel()

	e := New[string, int](4, 16, 3)
	e.Put("a", 1) // 1st sighting, not yet admitted
	if _, ok := e.Get("a"); ok { // 2nd sighting
		t.Fatal("must still be a miss before admission")
	}
	e.Put("a", 1) // 3rd sighting (Put, Get, Put) reaches K=3
	if v, ok := e.Get("a"); !ok || v != 1 {
		t.Fatalf("want admitted value 1, got %v ok=%v", v, ok)
	}
}

// Once resident, Put overwrites in place without consulting history.
func TestEngine_OverwriteResident(t *testing.T) {
	t.Parallel()

	e := New[string, int](4, 16, 1) // K=1: admit on first sighting
	e.Put("a", 1)
	e.Put("a", 2)

	if v, ok := e.Get("a"); !ok || v != 2 {
		t.Fatalf("want 2, got %v ok=%v", v, ok)
	}
}

func TestEngine_ContainsReflectsMainCacheOnly(t *testing.T) {
	t.Parallel()

	e := New[string, int](4, 16, 2)
	e.Put("a", 1) // 1 sighting, below threshold

	if e.Contains("a") {
		t.Fatal("a must not be Contains-resident before admission")
	}
	e.Put("a", 1) // 2nd sighting admits it
	if !e.Contains("a") {
		t.Fatal("a must be Contains-resident once admitted")
	}
}

func TestEngine_RemoveClearsBothLayers(t *testing.T) {
	t.Parallel()

	e := New[string, int](4, 16, 1)
	e.Put("a", 1)
	if !e.Remove("a") {
		t.Fatal("Remove must report true for a resident key")
	}
	if _, ok := e.Get("a"); ok {
		t.Fatal("a must be absent after Remove")
	}
}
