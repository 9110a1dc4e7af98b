package voiceconfig

import "fmt"

// ReadError means the config file exists but could not be read or parsed.
// Recoverable by the user re-entering configuration.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read voice config %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError means persisting the config to disk failed.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write voice config %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
