// Package transcripts locates session transcript files written by the
// host runtime. Transcripts are read-only input; nothing here ever
// writes into the host's project folders.
package transcripts

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// agentGlob matches subagent transcripts, which are excluded from
// session indexing.
const agentGlob = "agent-*"

// Find returns the project's transcript files, newest first. Subagent
// files are excluded.
func Find(projectsDir, projectFolder string) ([]string, error) {
	dir := filepath.Join(projectsDir, projectFolder)
	if _, err := os.Stat(dir); err != nil {
		return nil, nil
	}

	matches, err := doublestar.FilepathGlob(filepath.Join(dir, "*.jsonl"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob transcripts: %w", err)
	}

	type entry struct {
		path  string
		mtime int64
	}
	var entries []entry
	for _, path := range matches {
		base := filepath.Base(path)
		if skip, _ := doublestar.Match(agentGlob, base); skip {
			continue
		}
		fi, err := os.Stat(path)
		if err != nil {
			continue
		}
		entries = append(entries, entry{path: path, mtime: fi.ModTime().UnixNano()})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].mtime > entries[j].mtime
	})

	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.path
	}
	return paths, nil
}

// Newest returns the most recent transcript, or "" when the project
// has none yet.
func Newest(projectsDir, projectFolder string) (string, error) {
	paths, err := Find(projectsDir, projectFolder)
	if err != nil {
		return "", err
	}
	if len(paths) == 0 {
		return "", nil
	}
	return paths[0], nil
}

// SessionID derives the session id from a transcript filename.
func SessionID(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
