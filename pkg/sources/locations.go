package sources

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/kerbaras/lucollection/pkg/utils"
)

// HTTPLocation serves files from the host's static tree.
type HTTPLocation struct {
	api    *utils.API
	prefix string
}

func (l *HTTPLocation) Name() string {
	return l.api.BaseURL() + "/" + strings.Trim(l.prefix, "/")
}

func (l *HTTPLocation) Fetch(ctx context.Context, file string) ([]byte, error) {
	if err := validPath(file); err != nil {
		return nil, err
	}

	body, err := l.api.Get(ctx, path.Join("/", l.prefix, file))
	if err == nil {
		return body, nil
	}

	var statusErr *utils.StatusError
	if errors.As(err, &statusErr) {
		if statusErr.Code == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, file)
		}
		return nil, &HostError{Op: "fetch " + file, Status: statusErr.Code}
	}
	return nil, fmt.Errorf("fetch %s: %w: %v", file, ErrHostUnreachable, err)
}

// FSLocation serves files from an fs.FS, such as the embedded bundle or a local directory.
type FSLocation struct {
	name string
	fsys fs.FS
}

func NewFSLocation(name string, fsys fs.FS) *FSLocation {
	return &FSLocation{name: name, fsys: fsys}
}

// NewDirLocation serves files from a directory on disk.
func NewDirLocation(dir string) (*FSLocation, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}
	return NewFSLocation(dir, os.DirFS(dir)), nil
}

func (l *FSLocation) Name() string {
	return l.name
}

func (l *FSLocation) Fetch(_ context.Context, file string) ([]byte, error) {
	if err := validPath(file); err != nil {
		return nil, err
	}
	content, err := fs.ReadFile(l.fsys, file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, file)
	}
	return content, err
}

func validPath(file string) error {
	if !fs.ValidPath(file) || file == "." {
		return fmt.Errorf("%w: invalid path %q", ErrAssetNotFound, file)
	}
	return nil
}
