package jsonfile

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/example/recall/internal/config"
	"github.com/example/recall/internal/core/sop"
	"github.com/example/recall/internal/models"
	"github.com/example/recall/internal/ports/secondary"
)

//go:embed sops.schema.json
var schemaFS embed.FS

const sopSchemaURL = "mem://schemas/sops.schema.json"

var (
	sopSchemaOnce sync.Once
	sopSchema     *jsonschema.Schema
	sopSchemaErr  error
)

func compiledSOPSchema() (*jsonschema.Schema, error) {
	sopSchemaOnce.Do(func() {
		data, err := schemaFS.ReadFile("sops.schema.json")
		if err != nil {
			sopSchemaErr = fmt.Errorf("failed to read sop schema: %w", err)
			return
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			sopSchemaErr = fmt.Errorf("failed to decode sop schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(sopSchemaURL, doc); err != nil {
			sopSchemaErr = fmt.Errorf("failed to register sop schema: %w", err)
			return
		}
		sopSchema, sopSchemaErr = c.Compile(sopSchemaURL)
	})
	return sopSchema, sopSchemaErr
}

// SOPStore implements secondary.SOPStore over layered JSON documents.
type SOPStore struct {
	cfg *config.Settings
}

// NewSOPStore creates a SOP store using the settings' paths.
func NewSOPStore(cfg *config.Settings) *SOPStore {
	return &SOPStore{cfg: cfg}
}

// LoadMerged loads the global document and, if an ancestor of workDir
// carries one, the project document, merged with project entries
// winning. Any unreadable or invalid document degrades to empty.
func (s *SOPStore) LoadMerged(workDir string) *sop.Set {
	global := s.loadDocument(s.cfg.GlobalSOPsPath())

	var project *sop.Document
	if projectPath := config.FindProjectFile(workDir, config.ProjectSOPsRelPath); projectPath != "" {
		project = s.loadDocument(projectPath)
	} else {
		project = sop.NewDocument()
	}

	return sop.Merge(global.SOPs, project.SOPs)
}

// Save merges one SOP into the target scope's document. Unrelated
// entries are kept; saving an identical entry twice is a no-op.
func (s *SOPStore) Save(name string, entry sop.SOP, scope, workDir string) error {
	path := s.cfg.GlobalSOPsPath()
	if scope == models.ScopeProject {
		path = filepath.Join(config.ProjectRoot(workDir), config.ProjectSOPsRelPath)
	}

	doc := s.loadDocument(path)
	if existing, ok := doc.SOPs.Get(name); ok && reflect.DeepEqual(existing, entry) {
		return nil
	}
	doc.SOPs.Put(name, entry)

	return s.writeDocument(path, doc)
}

// ProvisionDefaults writes doc to the global path only when nothing
// exists there yet. First-install semantics: a user's edited document
// is never replaced.
func (s *SOPStore) ProvisionDefaults(doc *sop.Document) (bool, error) {
	path := s.cfg.GlobalSOPsPath()
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := s.writeDocument(path, doc); err != nil {
		return false, err
	}
	return true, nil
}

// loadDocument reads and validates one SOP document. Every failure
// mode degrades to an empty document; a broken file must not break
// the hook pipeline.
func (s *SOPStore) loadDocument(path string) *sop.Document {
	data, err := os.ReadFile(path)
	if err != nil {
		return sop.NewDocument()
	}

	if schema, err := compiledSOPSchema(); err == nil {
		inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			return sop.NewDocument()
		}
		if err := schema.Validate(inst); err != nil {
			return sop.NewDocument()
		}
	}

	doc := sop.NewDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return sop.NewDocument()
	}
	return doc
}

func (s *SOPStore) writeDocument(path string, doc *sop.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal sop document: %w", err)
	}

	var indented bytes.Buffer
	if err := json.Indent(&indented, data, "", "  "); err != nil {
		return fmt.Errorf("failed to format sop document: %w", err)
	}

	return writeAtomic(path, indented.Bytes())
}

// Ensure SOPStore implements the interface.
var _ secondary.SOPStore = (*SOPStore)(nil)
