package ports

import "io"

// SinkPort opens the destination of a generation run.
type SinkPort interface {
	Create(path string) (Artifact, error)
}

// Artifact receives the generated file. Exactly one of Commit or Abort
// publishes or discards what was written.
type Artifact interface {
	io.Writer
	Commit() error
	Abort() error
}
