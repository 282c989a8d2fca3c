package adapters

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"kindex/kin/internal/store"
)

// defaultExtensions are the file types ingested when none are given.
var defaultExtensions = []string{".md", ".txt", ".rst", ".org"}

// maxFileContent caps how much of a file becomes node content.
const maxFileContent = 4000

// FilesAdapter ingests plain-text documents from a directory tree as
// document nodes. Each file gets a stable id derived from its path, so
// re-running the adapter is idempotent.
type FilesAdapter struct{}

// Meta implements Adapter.
func (FilesAdapter) Meta() Meta {
	return Meta{
		Name:        "files",
		Description: "Ingest markdown and text files from a directory",
		Version:     "0.1.0",
		Options: []Option{
			{Name: "dir", Description: "Directory to scan", Required: true},
			{Name: "ext", Description: "Comma-separated extensions (default .md,.txt,.rst,.org)"},
		},
	}
}

// IsAvailable implements Adapter; filesystem access is always present.
func (FilesAdapter) IsAvailable() bool { return true }

// Ingest walks the directory and creates a document node per matching
// file. Files already ingested (by path-derived id) are skipped, as are
// hidden files and directories.
func (FilesAdapter) Ingest(s *store.Store, p IngestParams) (IngestResult, error) {
	var res IngestResult

	dir := p.Options["dir"]
	if dir == "" {
		return res, fmt.Errorf("files adapter: dir option is required")
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return res, err
	}

	extensions := defaultExtensions
	if raw := p.Options["ext"]; raw != "" {
		extensions = nil
		for _, e := range strings.Split(raw, ",") {
			e = strings.TrimSpace(e)
			if e == "" {
				continue
			}
			if !strings.HasPrefix(e, ".") {
				e = "." + e
			}
			extensions = append(extensions, strings.ToLower(e))
		}
	}

	var paths []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != dir && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(name))
		for _, want := range extensions {
			if ext == want {
				paths = append(paths, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return res, err
	}
	sort.Strings(paths)

	for _, path := range paths {
		if p.Limit > 0 && res.Created >= p.Limit {
			break
		}
		nodeID := fileNodeID(path)

		existing, err := s.GetNode(nodeID)
		if err != nil {
			return res, err
		}
		if existing != nil {
			res.Skipped++
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		content := string(data)
		if len(content) > maxFileContent {
			content = content[:maxFileContent]
		}

		hash := sha256.Sum256(data)
		_, err = s.AddNode(store.NodeParams{
			ID:       nodeID,
			Title:    titleFromPath(path),
			Content:  content,
			Type:     "document",
			Source:   path,
			Activity: "file-ingest",
			Extra: map[string]any{
				"file_paths":  []any{path},
				"file_hashes": map[string]any{path: hex.EncodeToString(hash[:])},
			},
		})
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		res.Created++
	}
	return res, nil
}

// fileNodeID derives a stable node id from the absolute path.
func fileNodeID(path string) string {
	sum := sha256.Sum256([]byte(path))
	return "file-" + hex.EncodeToString(sum[:])[:12]
}

// titleFromPath turns "my-design_notes.md" into "My Design Notes".
func titleFromPath(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	stem = strings.ReplaceAll(stem, "-", " ")
	stem = strings.ReplaceAll(stem, "_", " ")
	words := strings.Fields(stem)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
