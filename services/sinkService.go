package services

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/amine-amaach/simulators/uanodegen/ports"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// StdoutPath is the output path that writes the generated file to stdout.
const StdoutPath = "-"

type fileSink struct {
	fs     afero.Fs
	stdout io.Writer
}

// NewFileSink returns a sink writing files through fs. Writes go to a temporary
// file next to the destination which is renamed into place on commit.
func NewFileSink(fs afero.Fs) *fileSink {
	return &fileSink{fs: fs, stdout: os.Stdout}
}

// Create implements the SinkPort interface.
func (s *fileSink) Create(path string) (ports.Artifact, error) {
	if path == StdoutPath || path == "" {
		return &bufferedArtifact{out: s.stdout}, nil
	}
	dir := filepath.Dir(path)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating %s", dir)
	}
	tmp, err := afero.TempFile(s.fs, dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, errors.Wrapf(err, "creating temporary file in %s", dir)
	}
	return &fileArtifact{fs: s.fs, file: tmp, path: path}, nil
}

type fileArtifact struct {
	fs   afero.Fs
	file afero.File
	path string
	done bool
}

func (a *fileArtifact) Write(p []byte) (int, error) {
	return a.file.Write(p)
}

// Commit syncs the temporary file and renames it to the destination.
func (a *fileArtifact) Commit() error {
	if a.done {
		return nil
	}
	a.done = true
	if err := a.file.Sync(); err != nil {
		a.discard()
		return err
	}
	if err := a.file.Close(); err != nil {
		_ = a.fs.Remove(a.file.Name())
		return err
	}
	if err := a.fs.Rename(a.file.Name(), a.path); err != nil {
		_ = a.fs.Remove(a.file.Name())
		return err
	}
	return nil
}

// Abort removes the temporary file. The destination is left untouched.
func (a *fileArtifact) Abort() error {
	if a.done {
		return nil
	}
	a.done = true
	return a.discard()
}

func (a *fileArtifact) discard() error {
	_ = a.file.Close()
	return a.fs.Remove(a.file.Name())
}

// bufferedArtifact holds the generated file until it is committed to out.
type bufferedArtifact struct {
	out io.Writer
	buf bytes.Buffer
}

func (a *bufferedArtifact) Write(p []byte) (int, error) {
	return a.buf.Write(p)
}

func (a *bufferedArtifact) Commit() error {
	_, err := a.buf.WriteTo(a.out)
	return err
}

func (a *bufferedArtifact) Abort() error {
	a.buf.Reset()
	return nil
}
