package sources

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrHostUnreachable = errors.New("host unreachable")
	ErrHostRejected    = errors.New("host rejected request")
	ErrAssetNotFound   = errors.New("asset not found")
)

// HostError carries the host's status and error text for a rejected request.
type HostError struct {
	Op      string
	Status  int
	Message string
}

func (e *HostError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	if e.Message == "" {
		return fmt.Sprintf("%s: host returned %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: host returned %d: %s", e.Op, e.Status, e.Message)
}

func (e *HostError) Unwrap() error {
	return ErrHostRejected
}

// Host is the part of the SillyTavern API the importer talks to.
type Host interface {
	ListThemes(ctx context.Context) ([]string, error)
	SaveTheme(ctx context.Context, theme map[string]any) error
	ImportCharacter(ctx context.Context, upload CharacterUpload) (*ImportResponse, error)
}

// Location serves bundled asset files by their path relative to the extension directory.
type Location interface {
	Name() string
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// CharacterUpload is the multipart payload for /api/characters/import.
type CharacterUpload struct {
	FileName      string
	FileType      string
	ContentType   string
	Content       []byte
	PreservedName string
}

// ImportResponse is the host's reply to a character import.
type ImportResponse struct {
	FileName string `json:"file_name,omitempty"`
	Error    any    `json:"error,omitempty"`
}

// ErrorText returns the host's error text, or "" when the import succeeded.
func (r *ImportResponse) ErrorText() string {
	switch v := r.Error.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "import failed"
		}
		return ""
	default:
		return fmt.Sprint(v)
	}
}
