// Package render turns the resolved documentation model into output files.
// Backends are mutually independent: each renders into its own directory,
// and a failing backend never blocks the others.
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gddoc/internal/links"
)

// Backend is one output format.
type Backend interface {
	Name() string
	Extension() string
	// RenderClass produces the output unit for one class. A nil, nil
	// return means the backend has nothing to emit for this class.
	RenderClass(rc *links.ResolvedClass, resolved *links.ResolvedModel) ([]byte, error)
	// RenderIndex produces the index unit; ok is false for backends
	// without one.
	RenderIndex(resolved *links.ResolvedModel) (content []byte, ok bool)
}

// Options is the rendering configuration shared by backends.
type Options struct {
	// OpeningComment prepends a generated-file header to every unit.
	OpeningComment bool
}

// BackendIOError marks a failure to write a backend's output. It is fatal
// to that backend only.
type BackendIOError struct {
	Backend string
	Path    string
	Err     error
}

func (e *BackendIOError) Error() string {
	return fmt.Sprintf("%s backend: write %s: %v", e.Backend, e.Path, e.Err)
}

func (e *BackendIOError) Unwrap() error { return e.Err }

// Job pairs a backend with its output directory.
type Job struct {
	Backend   Backend
	OutputDir string
}

// Result reports one backend's outcome.
type Result struct {
	Backend string
	// Files lists the written paths, sorted.
	Files []string
	Err   error
}

// RenderAll runs every job. The resolved model and the link database behind
// it are read-only by now, so backends render concurrently, one goroutine
// each, writing only into their own directories.
func RenderAll(resolved *links.ResolvedModel, jobs []Job) []Result {
	results := make([]Result, len(jobs))
	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		go func(i int, job Job) {
			defer wg.Done()
			results[i] = renderOne(resolved, job)
		}(i, job)
	}
	wg.Wait()
	return results
}

func renderOne(resolved *links.ResolvedModel, job Job) Result {
	backend := job.Backend
	res := Result{Backend: backend.Name()}

	if err := os.MkdirAll(job.OutputDir, 0o755); err != nil {
		res.Err = &BackendIOError{Backend: backend.Name(), Path: job.OutputDir, Err: err}
		return res
	}

	if content, ok := backend.RenderIndex(resolved); ok {
		path := filepath.Join(job.OutputDir, "index."+backend.Extension())
		if err := writeFile(path, content); err != nil {
			res.Err = &BackendIOError{Backend: backend.Name(), Path: path, Err: err}
			return res
		}
		res.Files = append(res.Files, path)
	}

	for _, rc := range resolved.Classes {
		content, err := backend.RenderClass(rc, resolved)
		if err != nil {
			res.Err = fmt.Errorf("%s backend: class %s: %w", backend.Name(), rc.Class.Name, err)
			return res
		}
		if content == nil {
			continue
		}
		path := filepath.Join(job.OutputDir, rc.Display+"."+backend.Extension())
		if err := writeFile(path, content); err != nil {
			res.Err = &BackendIOError{Backend: backend.Name(), Path: path, Err: err}
			return res
		}
		res.Files = append(res.Files, path)
	}
	sort.Strings(res.Files)
	return res
}

// writeFile writes content with the close guaranteed on every exit path, so
// a failed render never leaks a half-open handle.
func writeFile(path string, content []byte) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	_, err = f.Write(content)
	return err
}
