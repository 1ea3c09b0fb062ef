package jsonfile_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/recall/internal/adapters/jsonfile"
	"github.com/example/recall/internal/config"
	"github.com/example/recall/internal/models"
)

func TestKnowledgeStore_AddAndLoad(t *testing.T) {
	cfg := testSettings(t)
	store := jsonfile.NewKnowledgeStore(cfg)
	workDir := testProjectDir(t)

	item := models.KnowledgeItem{
		Category: models.CategoryGotchas,
		Content:  "The staging DB drops idle connections after 30s",
		Scope:    models.ScopeGlobal,
	}
	if err := store.Add(item, workDir); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	got := store.Load(models.ScopeGlobal, workDir)
	if len(got[models.CategoryGotchas]) != 1 {
		t.Fatalf("Gotchas = %v, want one item", got[models.CategoryGotchas])
	}
	if got[models.CategoryGotchas][0] != item.Content {
		t.Errorf("item = %q, want %q", got[models.CategoryGotchas][0], item.Content)
	}
}

func TestKnowledgeStore_AddIsIdempotent(t *testing.T) {
	cfg := testSettings(t)
	store := jsonfile.NewKnowledgeStore(cfg)
	workDir := testProjectDir(t)

	item := models.KnowledgeItem{
		Category: models.CategoryTools,
		Content:  "Tool script at ./scripts/deploy.sh",
		Scope:    models.ScopeGlobal,
	}
	for i := 0; i < 3; i++ {
		if err := store.Add(item, workDir); err != nil {
			t.Fatalf("Add() #%d error: %v", i, err)
		}
	}

	got := store.Load(models.ScopeGlobal, workDir)
	if len(got[models.CategoryTools]) != 1 {
		t.Errorf("Tools = %v, want exactly one item", got[models.CategoryTools])
	}
}

func TestKnowledgeStore_RejectsUnknownCategoryAndScope(t *testing.T) {
	store := jsonfile.NewKnowledgeStore(testSettings(t))
	workDir := testProjectDir(t)

	err := store.Add(models.KnowledgeItem{
		Category: "Recipes", Content: "x", Scope: models.ScopeGlobal,
	}, workDir)
	if err == nil {
		t.Error("Add() with unknown category succeeded, want error")
	}

	err = store.Add(models.KnowledgeItem{
		Category: models.CategoryGotchas, Content: "x", Scope: "team",
	}, workDir)
	if err == nil {
		t.Error("Add() with unknown scope succeeded, want error")
	}
}

func TestKnowledgeStore_ProjectScopeWritesIntoProjectTree(t *testing.T) {
	cfg := testSettings(t)
	store := jsonfile.NewKnowledgeStore(cfg)
	workDir := testProjectDir(t)

	item := models.KnowledgeItem{
		Category: models.CategoryWorkflows,
		Content:  "Run make generate after editing the schema",
		Scope:    models.ScopeProject,
	}
	if err := store.Add(item, workDir); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	path := filepath.Join(workDir, config.ProjectKnowledgeRelPath)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("project knowledge file not written: %v", err)
	}
	if !strings.Contains(string(data), "# Project Knowledge") {
		t.Errorf("project file missing header:\n%s", data)
	}
	if !strings.Contains(string(data), item.Content) {
		t.Errorf("project file missing item:\n%s", data)
	}
}

func TestKnowledgeStore_AllMergesGlobalThenProject(t *testing.T) {
	cfg := testSettings(t)
	store := jsonfile.NewKnowledgeStore(cfg)
	workDir := testProjectDir(t)

	global := models.KnowledgeItem{
		Category: models.CategoryGotchas, Content: "global fact", Scope: models.ScopeGlobal,
	}
	project := models.KnowledgeItem{
		Category: models.CategoryGotchas, Content: "project fact", Scope: models.ScopeProject,
	}
	if err := store.Add(global, workDir); err != nil {
		t.Fatalf("Add(global) error: %v", err)
	}
	if err := store.Add(project, workDir); err != nil {
		t.Fatalf("Add(project) error: %v", err)
	}

	all := store.All(workDir)
	gotchas := all[models.CategoryGotchas]
	if len(gotchas) != 2 {
		t.Fatalf("Gotchas = %v, want 2 items", gotchas)
	}
	if gotchas[0] != "global fact" || gotchas[1] != "project fact" {
		t.Errorf("merge order = %v, want global then project", gotchas)
	}
}

func TestKnowledgeStore_MissingFileDegradesToEmpty(t *testing.T) {
	store := jsonfile.NewKnowledgeStore(testSettings(t))

	got := store.Load(models.ScopeGlobal, t.TempDir())
	for _, cat := range models.Categories {
		if len(got[cat]) != 0 {
			t.Errorf("%s = %v, want empty", cat, got[cat])
		}
	}
}

func TestKnowledgeStore_ParsesHandEditedDocument(t *testing.T) {
	cfg := testSettings(t)
	store := jsonfile.NewKnowledgeStore(cfg)

	doc := `# Global Knowledge

## Credentials
- AWS creds via SSO, not access keys

some stray prose that is not an item

## Gotchas
- CI uses Node 20, local uses 22
- Flaky test: TestRetry needs -count=1
`
	if err := os.WriteFile(cfg.GlobalKnowledgePath(), []byte(doc), 0644); err != nil {
		t.Fatalf("failed to write document: %v", err)
	}

	got := store.Load(models.ScopeGlobal, t.TempDir())
	if len(got[models.CategoryCredentials]) != 1 {
		t.Errorf("Credentials = %v, want 1 item", got[models.CategoryCredentials])
	}
	if len(got[models.CategoryGotchas]) != 2 {
		t.Errorf("Gotchas = %v, want 2 items", got[models.CategoryGotchas])
	}
}

func TestKnowledgeStore_UnknownHeadingIsNotMisfiled(t *testing.T) {
	cfg := testSettings(t)
	store := jsonfile.NewKnowledgeStore(cfg)

	doc := `# Global Knowledge

## Toolset
- item under a heading that only resembles Tools

## Tools
- real tools item
`
	if err := os.WriteFile(cfg.GlobalKnowledgePath(), []byte(doc), 0644); err != nil {
		t.Fatalf("failed to write document: %v", err)
	}

	got := store.Load(models.ScopeGlobal, t.TempDir())
	tools := got[models.CategoryTools]
	if len(tools) != 1 {
		t.Fatalf("Tools = %v, want only the item under the exact heading", tools)
	}
	if tools[0] != "real tools item" {
		t.Errorf("Tools[0] = %q, want the real tools item", tools[0])
	}
}
