package domain

import (
	"reflect"
	"testing"
)

func TestParseCanonical(t *testing.T) {
	cases := []struct {
		key  string
		want CanonicalName
		ok   bool
	}{
		{"dll", "dll", true},
		{"dll_vendor", "vendor", true},
		{"dll_UI", "UI", true},
		{"dll_", "", false},
		{"dll_vendor2", "", false},
		{"dll_dll", "", false},
		{"app", "", false},
		{"mydll", "", false},
		{"dllx", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := ParseCanonical(c.key)
		if ok != c.ok || got != c.want {
			t.Errorf("ParseCanonical(%q) = (%q, %v), want (%q, %v)", c.key, got, ok, c.want, c.ok)
		}
	}
}

func TestCanonicalRoundTrip(t *testing.T) {
	keys := []string{"dll", "dll_vendor", "dll_charts", "app", "dll_dll", "dll_a1", "main"}
	for _, k := range keys {
		name, ok := ParseCanonical(k)
		if !ok {
			continue
		}
		if got := RawKeyFor(name); got != k {
			t.Errorf("RawKeyFor(ParseCanonical(%q)) = %q", k, got)
		}
	}
}

func TestRawKeyForNeverCollides(t *testing.T) {
	names := []CanonicalName{"dll", "vendor", "charts", "Vendor"}
	seen := map[string]CanonicalName{}
	for _, n := range names {
		k := RawKeyFor(n)
		if prev, ok := seen[k]; ok {
			t.Fatalf("raw key %q produced by %q and %q", k, prev, n)
		}
		seen[k] = n
	}
	if RawKeyFor("dll") != "dll" {
		t.Fatalf("expected dll to map to itself")
	}
	if RawKeyFor("vendor") != "dll_vendor" {
		t.Fatalf("expected vendor to map to dll_vendor")
	}
}

func TestCanonicalizeDropsNonMatchingKeys(t *testing.T) {
	raw := EntryMap{
		"dll":        {"vue", "vue-router"},
		"dll_charts": {"echarts"},
		"app":        {"./src/main.js"},
		"dll_empty":  {},
	}

	got := Canonicalize(raw)
	want := CanonicalEntries{
		"dll":    {"vue", "vue-router"},
		"charts": {"echarts"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Canonicalize = %#v, want %#v", got, want)
	}

	main := MainEntries(raw)
	if _, ok := main["app"]; !ok || len(main) != 1 {
		t.Fatalf("MainEntries = %#v, want only app", main)
	}
}

func TestCanonicalizeCopiesRequests(t *testing.T) {
	raw := EntryMap{"dll": {"vue"}}
	got := Canonicalize(raw)
	got["dll"][0] = "react"
	if raw["dll"][0] != "vue" {
		t.Fatalf("expected input not to be mutated")
	}
}

func TestCanonicalEntriesNamesSorted(t *testing.T) {
	c := CanonicalEntries{"vendor": {"a"}, "charts": {"b"}, "dll": {"c"}}
	got := c.Names()
	want := []CanonicalName{"charts", "dll", "vendor"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Names = %v, want %v", got, want)
	}
}

func TestNormalizeEntry(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want EntryMap
	}{
		{"nil", nil, EntryMap{}},
		{"bare string", "vue", EntryMap{"dll": {"vue"}}},
		{"bare list", []any{"vue", "vue-router"}, EntryMap{"dll": {"vue", "vue-router"}}},
		{"map with scalar", map[string]any{"vendor": "vue"}, EntryMap{"vendor": {"vue"}}},
		{"map with list", map[string]any{"vendor": []any{"vue", " ", "vuex"}}, EntryMap{"vendor": {"vue", "vuex"}}},
		{"empty value dropped", map[string]any{"vendor": []any{}}, EntryMap{}},
		{"typed map", map[string][]string{"dll": {"vue"}}, EntryMap{"dll": {"vue"}}},
		{"unsupported value", map[string]any{"vendor": 42}, EntryMap{}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := NormalizeEntry(c.in)
			if !reflect.DeepEqual(got, c.want) {
				t.Fatalf("NormalizeEntry(%#v) = %#v, want %#v", c.in, got, c.want)
			}
		})
	}
}

func TestValidCanonicalName(t *testing.T) {
	if !ValidCanonicalName("vendor") || !ValidCanonicalName("dll") {
		t.Fatalf("expected vendor and dll to be valid")
	}
	if ValidCanonicalName("vendor-2") || ValidCanonicalName("") {
		t.Fatalf("expected vendor-2 and empty name to be invalid")
	}
}

func TestPrebundleConfigEntries_CollisionIsStable(t *testing.T) {
	c := PrebundleConfig{Entry: EntryMap{"vendor": {"vue"}, "dll_vendor": {"react"}}}

	for i := 0; i < 50; i++ {
		got := Canonicalize(c.Entries())
		if len(got) != 1 || !reflect.DeepEqual(got["vendor"], []string{"react"}) {
			t.Fatalf("run %d: expected dll_vendor to win, got %v", i, got)
		}
	}
}
