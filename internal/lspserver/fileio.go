package lspserver

import (
	"context"
	"os"
	"strings"
)

// OSFileReader satisfies controller.FileReader by reading straight off
// disk, the adaptation this server needs for the Parse event (a manifest
// changed by a file watcher rather than an open editor buffer); the
// original_source read_file.rs instead gated this on a client capability
// and round-tripped through the editor, which this server has no
// equivalent transport hook for.
type OSFileReader struct{}

// ReadFile strips a file:// scheme (the only one the watcher or an editor
// ever hands this server) and reads the path directly.
func (OSFileReader) ReadFile(_ context.Context, uri string) (string, error) {
	path := strings.TrimPrefix(uri, "file://")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
