// Package sop implements the layered SOP store model: named
// error-handling recipes merged from a global and a project document,
// matched against error text by ordered substring patterns.
package sop

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DocumentVersion is the current SOP document schema version.
const DocumentVersion = 1

// Examples is an optional bad/good command pair attached to a SOP.
type Examples struct {
	Bad  string `json:"bad,omitempty"`
	Good string `json:"good,omitempty"`
}

// SOP is one named error-handling recipe. A SOP with no patterns is
// legal but can never match.
type SOP struct {
	Description string    `json:"description"`
	Patterns    []string  `json:"patterns"`
	Causes      []string  `json:"causes,omitempty"`
	Fixes       []string  `json:"fixes"`
	Examples    *Examples `json:"examples,omitempty"`
}

// Set is an insertion-ordered mapping from SOP name to SOP. Order is
// behavioral, not cosmetic: the matcher returns the first SOP whose
// pattern hits, so two overlapping SOPs resolve by Set order.
type Set struct {
	names []string
	sops  map[string]SOP
}

// NewSet returns an empty SOP set.
func NewSet() *Set {
	return &Set{sops: make(map[string]SOP)}
}

// Put inserts or replaces a SOP. Replacing keeps the name's original
// position, so a project override slots into the global entry's place
// in match order.
func (s *Set) Put(name string, sop SOP) {
	if _, exists := s.sops[name]; !exists {
		s.names = append(s.names, name)
	}
	s.sops[name] = sop
}

// Get returns the SOP stored under name.
func (s *Set) Get(name string) (SOP, bool) {
	sop, ok := s.sops[name]
	return sop, ok
}

// Names returns the SOP names in insertion order.
func (s *Set) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Len returns the number of SOPs in the set.
func (s *Set) Len() int {
	return len(s.names)
}

// Merge layers project over global: every global entry in file order,
// then project entries, where a project entry replaces a global entry
// of the same name in place. Neither input is modified.
func Merge(global, project *Set) *Set {
	merged := NewSet()
	if global != nil {
		for _, name := range global.names {
			merged.Put(name, global.sops[name])
		}
	}
	if project != nil {
		for _, name := range project.names {
			merged.Put(name, project.sops[name])
		}
	}
	return merged
}

// Document is the on-disk SOP file shape:
// {"version":1,"sops":{name:{...}}}.
type Document struct {
	Version int
	SOPs    *Set
}

// NewDocument returns an empty versioned document.
func NewDocument() *Document {
	return &Document{Version: DocumentVersion, SOPs: NewSet()}
}

// UnmarshalJSON decodes the document while preserving the file order
// of the sops object. encoding/json maps drop key order, which would
// break first-match-wins semantics, so the sops object is walked
// token by token.
func (d *Document) UnmarshalJSON(data []byte) error {
	d.Version = DocumentVersion
	d.SOPs = NewSet()

	var raw struct {
		Version int             `json:"version"`
		SOPs    json.RawMessage `json:"sops"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Version != 0 {
		d.Version = raw.Version
	}
	if len(raw.SOPs) == 0 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw.SOPs))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("sops is not an object")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("sop name is not a string")
		}

		var sop SOP
		if err := dec.Decode(&sop); err != nil {
			return err
		}
		d.SOPs.Put(name, sop)
	}

	return nil
}

// MarshalJSON encodes the document with sops in set order, so a
// load/save round trip leaves match order untouched.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf(`{"version":%d,"sops":{`, d.Version))

	for i, name := range d.SOPs.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(d.SOPs.sops[name])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}

	buf.WriteString("}}")
	return buf.Bytes(), nil
}
