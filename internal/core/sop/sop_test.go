package sop

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestSet_PutKeepsPositionOnReplace(t *testing.T) {
	set := NewSet()
	set.Put("FIRST", SOP{Description: "first"})
	set.Put("SECOND", SOP{Description: "second"})
	set.Put("FIRST", SOP{Description: "replaced"})

	want := []string{"FIRST", "SECOND"}
	if got := set.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}

	got, ok := set.Get("FIRST")
	if !ok || got.Description != "replaced" {
		t.Errorf("Get(FIRST) = %+v, want replaced entry", got)
	}
}

func TestMerge_ProjectOverridesInPlace(t *testing.T) {
	global := NewSet()
	global.Put("A", SOP{Description: "global a"})
	global.Put("B", SOP{Description: "global b"})
	global.Put("C", SOP{Description: "global c"})

	project := NewSet()
	project.Put("B", SOP{Description: "project b"})
	project.Put("D", SOP{Description: "project d"})

	merged := Merge(global, project)

	wantOrder := []string{"A", "B", "C", "D"}
	if got := merged.Names(); !reflect.DeepEqual(got, wantOrder) {
		t.Errorf("merged order = %v, want %v", got, wantOrder)
	}

	b, _ := merged.Get("B")
	if b.Description != "project b" {
		t.Errorf("B description = %q, want project override", b.Description)
	}

	// Inputs are untouched.
	gb, _ := global.Get("B")
	if gb.Description != "global b" {
		t.Errorf("global B mutated: %q", gb.Description)
	}
}

func TestMerge_NilInputs(t *testing.T) {
	merged := Merge(nil, nil)
	if merged.Len() != 0 {
		t.Errorf("Merge(nil, nil).Len() = %d, want 0", merged.Len())
	}
}

func TestDocument_RoundTripPreservesOrder(t *testing.T) {
	raw := `{"version":1,"sops":{
		"ZEBRA":{"description":"z","patterns":["z err"],"fixes":["fz"]},
		"ALPHA":{"description":"a","patterns":["a err"],"fixes":["fa"]},
		"MIDDLE":{"description":"m","patterns":["m err"],"fixes":["fm"]}
	}}`

	var doc Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	wantOrder := []string{"ZEBRA", "ALPHA", "MIDDLE"}
	if got := doc.SOPs.Names(); !reflect.DeepEqual(got, wantOrder) {
		t.Fatalf("decoded order = %v, want %v", got, wantOrder)
	}

	out, err := json.Marshal(&doc)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var again Document
	if err := json.Unmarshal(out, &again); err != nil {
		t.Fatalf("re-Unmarshal() error: %v", err)
	}
	if got := again.SOPs.Names(); !reflect.DeepEqual(got, wantOrder) {
		t.Errorf("round-trip order = %v, want %v", got, wantOrder)
	}
}

func TestDocument_UnmarshalEmptySops(t *testing.T) {
	var doc Document
	if err := json.Unmarshal([]byte(`{"version":1}`), &doc); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if doc.SOPs.Len() != 0 {
		t.Errorf("Len() = %d, want 0", doc.SOPs.Len())
	}
}

func TestMatch(t *testing.T) {
	set := NewSet()
	set.Put("PERMISSION_DENIED", SOP{
		Patterns: []string{"permission denied", "eacces"},
	})
	set.Put("NOT_FOUND", SOP{
		Patterns: []string{"not found"},
	})

	tests := []struct {
		name      string
		errorText string
		wantName  string
		wantOK    bool
	}{
		{
			name:      "exact pattern",
			errorText: "bash: permission denied",
			wantName:  "PERMISSION_DENIED",
			wantOK:    true,
		},
		{
			name:      "case insensitive",
			errorText: "EACCES: cannot open file",
			wantName:  "PERMISSION_DENIED",
			wantOK:    true,
		},
		{
			name:      "second sop",
			errorText: "rg: command not found",
			wantName:  "NOT_FOUND",
			wantOK:    true,
		},
		{
			name:      "no match",
			errorText: "segmentation fault",
			wantOK:    false,
		},
		{
			name:      "empty error",
			errorText: "",
			wantOK:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotName, _, gotOK := Match(tt.errorText, set)
			if gotOK != tt.wantOK {
				t.Fatalf("Match() ok = %v, want %v", gotOK, tt.wantOK)
			}
			if gotOK && gotName != tt.wantName {
				t.Errorf("Match() name = %q, want %q", gotName, tt.wantName)
			}
		})
	}
}

func TestMatch_FirstInSetOrderWins(t *testing.T) {
	set := NewSet()
	set.Put("SPECIFIC", SOP{Patterns: []string{"command not found"}})
	set.Put("BROAD", SOP{Patterns: []string{"not found"}})

	name, _, ok := Match("zsh: command not found: fd", set)
	if !ok || name != "SPECIFIC" {
		t.Errorf("Match() = %q, %v; want SPECIFIC, true", name, ok)
	}
}

func TestMatch_SkipsEmptyPatterns(t *testing.T) {
	set := NewSet()
	set.Put("EMPTY", SOP{Patterns: []string{""}})
	set.Put("REAL", SOP{Patterns: []string{"boom"}})

	name, _, ok := Match("everything went boom", set)
	if !ok || name != "REAL" {
		t.Errorf("Match() = %q, %v; want REAL, true", name, ok)
	}
}

func TestDefaults_CommandNotFoundBeforeFileNotFound(t *testing.T) {
	doc := Defaults()

	// "command not found" contains "not found"; the broader SOP must
	// not shadow the specific one.
	name, _, ok := Match("bash: rg: command not found", doc.SOPs)
	if !ok || name != "COMMAND_NOT_FOUND" {
		t.Errorf("Match() = %q, %v; want COMMAND_NOT_FOUND, true", name, ok)
	}

	name, _, ok = Match("cat: /tmp/missing: no such file", doc.SOPs)
	if !ok || name != "FILE_NOT_FOUND" {
		t.Errorf("Match() = %q, %v; want FILE_NOT_FOUND, true", name, ok)
	}
}

func TestFormat(t *testing.T) {
	s := SOP{
		Description: "No permission to execute",
		Patterns:    []string{"permission denied"},
		Causes:      []string{"missing executable bit"},
		Fixes:       []string{"chmod +x script.sh"},
		Examples:    &Examples{Bad: "./script.py", Good: "python3 ./script.py"},
	}

	got := Format("PERMISSION_DENIED", s)

	for _, want := range []string{
		"SOP: PERMISSION_DENIED",
		"No permission to execute",
		"missing executable bit",
		"chmod +x script.sh",
		"BAD:  ./script.py",
		"GOOD: python3 ./script.py",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Format() missing %q in:\n%s", want, got)
		}
	}
}
