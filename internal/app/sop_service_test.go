package app_test

import (
	"context"
	"testing"

	"github.com/example/recall/internal/adapters/jsonfile"
	"github.com/example/recall/internal/app"
	"github.com/example/recall/internal/config"
	"github.com/example/recall/internal/core/sop"
	"github.com/example/recall/internal/models"
	"github.com/example/recall/internal/ports/primary"
)

func setupSOPService(t *testing.T) (*app.SOPServiceImpl, string) {
	t.Helper()

	cfg := &config.Settings{Home: t.TempDir()}
	return app.NewSOPService(jsonfile.NewSOPStore(cfg)), t.TempDir()
}

func TestSOPService_SaveValidation(t *testing.T) {
	svc, workDir := setupSOPService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  primary.SaveSOPRequest
	}{
		{
			name: "missing name",
			req: primary.SaveSOPRequest{
				Scope:   models.ScopeGlobal,
				WorkDir: workDir,
				SOP:     sop.SOP{Patterns: []string{"boom"}},
			},
		},
		{
			name: "unknown scope",
			req: primary.SaveSOPRequest{
				Name:    "BOOM",
				Scope:   "workspace",
				WorkDir: workDir,
				SOP:     sop.SOP{Patterns: []string{"boom"}},
			},
		},
		{
			name: "no patterns",
			req: primary.SaveSOPRequest{
				Name:    "BOOM",
				Scope:   models.ScopeGlobal,
				WorkDir: workDir,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.Save(ctx, tt.req); err == nil {
				t.Error("Save() error = nil, want validation error")
			}
		})
	}
}

func TestSOPService_SaveThenMatch(t *testing.T) {
	svc, workDir := setupSOPService(t)
	ctx := context.Background()

	err := svc.Save(ctx, primary.SaveSOPRequest{
		Name:    "DISK_FULL",
		Scope:   models.ScopeGlobal,
		WorkDir: workDir,
		SOP: sop.SOP{
			Description: "Write failed because the disk is full",
			Patterns:    []string{"no space left on device"},
			Fixes:       []string{"Free disk space, then retry"},
		},
	})
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	name, matched, ok := svc.Match(ctx, workDir, "write /tmp/x: no space left on device")
	if !ok {
		t.Fatal("Match() ok = false, want true")
	}
	if name != "DISK_FULL" {
		t.Errorf("matched name = %q, want DISK_FULL", name)
	}
	if len(matched.Fixes) != 1 {
		t.Errorf("len(Fixes) = %d, want 1", len(matched.Fixes))
	}
}

func TestSOPService_ProvisionDefaultsOnce(t *testing.T) {
	svc, workDir := setupSOPService(t)
	ctx := context.Background()

	wrote, err := svc.ProvisionDefaults(ctx)
	if err != nil {
		t.Fatalf("ProvisionDefaults() error: %v", err)
	}
	if !wrote {
		t.Error("first ProvisionDefaults() wrote = false, want true")
	}

	wrote, err = svc.ProvisionDefaults(ctx)
	if err != nil {
		t.Fatalf("second ProvisionDefaults() error: %v", err)
	}
	if wrote {
		t.Error("second ProvisionDefaults() wrote = true, want false")
	}

	if svc.Merged(ctx, workDir).Len() == 0 {
		t.Error("Merged() is empty after provisioning defaults")
	}
}
