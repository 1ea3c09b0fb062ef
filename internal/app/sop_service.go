// Package app implements the primary ports over the secondary stores.
package app

import (
	"context"
	"fmt"

	"github.com/example/recall/internal/core/sop"
	"github.com/example/recall/internal/models"
	"github.com/example/recall/internal/ports/primary"
	"github.com/example/recall/internal/ports/secondary"
)

// SOPServiceImpl implements primary.SOPService.
type SOPServiceImpl struct {
	store secondary.SOPStore
}

// NewSOPService creates a new SOP service.
func NewSOPService(store secondary.SOPStore) *SOPServiceImpl {
	return &SOPServiceImpl{store: store}
}

// Merged returns the global+project SOP set for a working directory.
func (s *SOPServiceImpl) Merged(ctx context.Context, workDir string) *sop.Set {
	return s.store.LoadMerged(workDir)
}

// Match finds the first SOP matching the error text.
func (s *SOPServiceImpl) Match(ctx context.Context, workDir, errorText string) (string, sop.SOP, bool) {
	return sop.Match(errorText, s.store.LoadMerged(workDir))
}

// Save merges one SOP into the scope's document.
func (s *SOPServiceImpl) Save(ctx context.Context, req primary.SaveSOPRequest) error {
	if req.Name == "" {
		return fmt.Errorf("sop name is required")
	}
	if req.Scope != models.ScopeGlobal && req.Scope != models.ScopeProject {
		return fmt.Errorf("unknown sop scope: %s", req.Scope)
	}
	if len(req.SOP.Patterns) == 0 {
		return fmt.Errorf("sop %s has no patterns; it would never match", req.Name)
	}
	return s.store.Save(req.Name, req.SOP, req.Scope, req.WorkDir)
}

// ProvisionDefaults seeds the global SOP document with the shipped set
// when no document exists yet.
func (s *SOPServiceImpl) ProvisionDefaults(ctx context.Context) (bool, error) {
	return s.store.ProvisionDefaults(sop.Defaults())
}

// Ensure SOPServiceImpl implements the interface.
var _ primary.SOPService = (*SOPServiceImpl)(nil)
