package primary

import (
	"context"

	"github.com/example/recall/internal/core/sop"
)

// SOPService defines the primary port for the layered SOP store.
type SOPService interface {
	// Merged returns the global+project SOP set for a working
	// directory (project entries override global by name). Malformed
	// documents degrade to empty; Merged never fails.
	Merged(ctx context.Context, workDir string) *sop.Set

	// Match finds the first SOP matching the error text.
	Match(ctx context.Context, workDir, errorText string) (string, sop.SOP, bool)

	// Save merges one SOP into the global or project document,
	// creating it as needed. Saving identical content twice is a
	// no-op the second time.
	Save(ctx context.Context, req SaveSOPRequest) error

	// ProvisionDefaults writes the shipped SOP set to the global
	// document only if none exists yet. Reports whether a write
	// happened.
	ProvisionDefaults(ctx context.Context) (bool, error)
}

// SaveSOPRequest carries one SOP save.
type SaveSOPRequest struct {
	Name    string
	SOP     sop.SOP
	Scope   string // models.ScopeGlobal or models.ScopeProject
	WorkDir string // project root resolution starts here
}
