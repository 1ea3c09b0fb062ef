package jsonfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/recall/internal/config"
	"github.com/example/recall/internal/models"
	"github.com/example/recall/internal/ports/secondary"
)

// KnowledgeStore implements secondary.KnowledgeStore over flat
// markdown documents: one `## Category` heading per category, one
// `- item` line per fact.
type KnowledgeStore struct {
	cfg *config.Settings
}

// NewKnowledgeStore creates a knowledge store using the settings'
// paths.
func NewKnowledgeStore(cfg *config.Settings) *KnowledgeStore {
	return &KnowledgeStore{cfg: cfg}
}

func (k *KnowledgeStore) path(scope, workDir string) string {
	if scope == models.ScopeProject {
		return filepath.Join(config.ProjectRoot(workDir), config.ProjectKnowledgeRelPath)
	}
	return k.cfg.GlobalKnowledgePath()
}

func scopeHeader(scope string) string {
	if scope == models.ScopeProject {
		return "# Project Knowledge"
	}
	return "# Global Knowledge"
}

// Load reads one scope's document into category→items, preserving
// line order within each category. Missing or unreadable files
// degrade to an empty mapping.
func (k *KnowledgeStore) Load(scope, workDir string) map[string][]string {
	return parseKnowledge(k.path(scope, workDir))
}

// Add appends one fact line under its category heading, suppressing
// exact duplicates within the same category and scope. The write is
// atomic and keeps every unrelated entry.
func (k *KnowledgeStore) Add(item models.KnowledgeItem, workDir string) error {
	if !models.ValidCategory(item.Category) {
		return fmt.Errorf("unknown knowledge category: %s", item.Category)
	}
	if item.Scope != models.ScopeGlobal && item.Scope != models.ScopeProject {
		return fmt.Errorf("unknown knowledge scope: %s", item.Scope)
	}

	path := k.path(item.Scope, workDir)
	knowledge := parseKnowledge(path)

	for _, existing := range knowledge[item.Category] {
		if existing == item.Content {
			return nil
		}
	}
	knowledge[item.Category] = append(knowledge[item.Category], item.Content)

	return writeKnowledge(path, knowledge, scopeHeader(item.Scope))
}

// All merges global then project items per category, in that order.
func (k *KnowledgeStore) All(workDir string) map[string][]string {
	global := k.Load(models.ScopeGlobal, workDir)
	project := k.Load(models.ScopeProject, workDir)

	merged := make(map[string][]string)
	for _, cat := range models.Categories {
		merged[cat] = append(append([]string{}, global[cat]...), project[cat]...)
	}
	return merged
}

func parseKnowledge(path string) map[string][]string {
	result := make(map[string][]string)
	for _, cat := range models.Categories {
		result[cat] = nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return result
	}

	current := ""
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)

		if heading, ok := strings.CutPrefix(trimmed, "## "); ok {
			// An unknown heading still ends the previous section, so
			// its items are never misfiled.
			current = ""
			for _, cat := range models.Categories {
				if heading == cat {
					current = cat
					break
				}
			}
			continue
		}

		if current != "" && strings.HasPrefix(trimmed, "- ") {
			result[current] = append(result[current], trimmed[2:])
		}
	}

	return result
}

func writeKnowledge(path string, knowledge map[string][]string, header string) error {
	lines := []string{header, ""}

	for _, cat := range models.Categories {
		items := knowledge[cat]
		if len(items) == 0 {
			continue
		}
		lines = append(lines, "## "+cat)
		for _, item := range items {
			lines = append(lines, "- "+item)
		}
		lines = append(lines, "")
	}

	return writeAtomic(path, []byte(strings.Join(lines, "\n")))
}

// Ensure KnowledgeStore implements the interface.
var _ secondary.KnowledgeStore = (*KnowledgeStore)(nil)
