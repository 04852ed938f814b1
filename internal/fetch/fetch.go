// Package fetch rebuilds a Godot class table from the engine repository.
// The class list is derived from the doc/classes directory of the matching
// release branch, the same source the embedded tables were generated from.
package fetch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"gddoc/internal/linkdb"
)

// DefaultRepositoryURL is the upstream engine repository.
const DefaultRepositoryURL = "https://github.com/godotengine/godot"

const classesDir = "doc/classes"

// Fetcher clones the engine repository to enumerate builtin classes.
type Fetcher struct {
	// RepositoryURL overrides the upstream URL, mainly for tests.
	RepositoryURL string
}

// Classes returns the name -> documentation URL table for the given engine
// version. The clone is shallow, single-branch and removed afterwards.
func (f *Fetcher) Classes(ctx context.Context, version string) (map[string]string, error) {
	url := f.RepositoryURL
	if url == "" {
		url = DefaultRepositoryURL
	}

	tmpDir, err := os.MkdirTemp("", "gddoc-godot-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	_, err = git.PlainCloneContext(ctx, tmpDir, false, &git.CloneOptions{
		URL:           url,
		ReferenceName: plumbing.NewBranchReferenceName(version),
		SingleBranch:  true,
		Depth:         1,
	})
	if err != nil {
		return nil, fmt.Errorf("clone %s branch %s: %w", url, version, err)
	}

	entries, err := os.ReadDir(filepath.Join(tmpDir, classesDir))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", classesDir, err)
	}

	classes := make(map[string]string, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		// Engine-internal pages like @GDScript.xml are reachable through
		// the constants table, not the class table.
		if entry.IsDir() || strings.HasPrefix(name, "@") || !strings.HasSuffix(name, ".xml") {
			continue
		}
		class := strings.TrimSuffix(name, ".xml")
		classes[class] = linkdb.ClassURL(version, class)
	}
	if len(classes) == 0 {
		return nil, fmt.Errorf("branch %s has no class documentation", version)
	}
	return classes, nil
}
