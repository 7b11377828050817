// Package fs provides file-based storage for comparison reports.
package fs

import (
	"os"
	"path/filepath"

	"github.com/fwojciec/webcompare"
)

// ReportFile writes a report with atomic update semantics. Data goes to a
// temporary file next to the destination and is renamed into place on
// Commit, so readers never observe a partially written report.
type ReportFile struct {
	path string
	tmp  *os.File
	done bool
}

// CreateReportFile opens a temporary file for path. It fails when the
// destination directory does not exist or is not writable, which lets
// callers reject bad output paths before doing any work.
func CreateReportFile(path string) (*ReportFile, error) {
	if path == "" {
		return nil, webcompare.Errorf(webcompare.EINVALID, "report path is empty")
	}
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		return nil, webcompare.Errorf(webcompare.EINVALID, "report path %q is a directory", path)
	}
	tmp, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return nil, err
	}
	return &ReportFile{path: path, tmp: tmp}, nil
}

// Path returns the destination path.
func (f *ReportFile) Path() string {
	return f.path
}

func (f *ReportFile) Write(p []byte) (int, error) {
	return f.tmp.Write(p)
}

// Commit flushes the temporary file and moves it to the destination,
// replacing any existing file.
func (f *ReportFile) Commit() error {
	if f.done {
		return webcompare.Errorf(webcompare.EINTERNAL, "report file %q already closed", f.path)
	}
	f.done = true

	if err := f.tmp.Sync(); err != nil {
		f.discard()
		return err
	}
	if err := f.tmp.Close(); err != nil {
		_ = os.Remove(f.tmp.Name())
		return err
	}
	if err := os.Rename(f.tmp.Name(), f.path); err != nil {
		_ = os.Remove(f.tmp.Name())
		return err
	}
	return nil
}

// Abort removes the temporary file. It is safe to call after Commit.
func (f *ReportFile) Abort() error {
	if f.done {
		return nil
	}
	f.done = true
	return f.discard()
}

func (f *ReportFile) discard() error {
	_ = f.tmp.Close()
	return os.Remove(f.tmp.Name())
}
