package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/textproto"
	"sync"
	"time"

	"github.com/kerbaras/lucollection/pkg/utils"
	"github.com/rs/zerolog/log"
)

const (
	csrfPath             = "/csrf-token"
	settingsGetPath      = "/api/settings/get"
	themesSavePath       = "/api/themes/save"
	charactersImportPath = "/api/characters/import"
	defaultTimeout       = 30 * time.Second
)

// SillyTavernOptions configures a SillyTavern client.
type SillyTavernOptions struct {
	BaseURL  string
	Username string
	Password string
	Timeout  time.Duration
	// Client overrides the HTTP client; its Jar is replaced when nil.
	Client *http.Client
}

// SillyTavern talks to a running SillyTavern server.
type SillyTavern struct {
	api      *utils.API
	username string
	password string

	mu        sync.Mutex
	csrfToken string
	csrfReady bool
}

func NewSillyTavern(opts SillyTavernOptions) (*SillyTavern, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("host URL is required")
	}

	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	if client.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		client.Jar = jar
	}

	st := &SillyTavern{
		api:      utils.NewAPI(opts.BaseURL, client),
		username: opts.Username,
		password: opts.Password,
	}
	st.api.Prepare = st.prepare
	return st, nil
}

func (s *SillyTavern) BaseURL() string {
	return s.api.BaseURL()
}

// prepare attaches basic auth and, on state-changing requests, the CSRF token.
func (s *SillyTavern) prepare(ctx context.Context, req *http.Request) error {
	if s.username != "" {
		req.SetBasicAuth(s.username, s.password)
	}
	if req.Method == http.MethodGet {
		return nil
	}

	token, err := s.token(ctx)
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("X-CSRF-Token", token)
	}
	return nil
}

// token fetches the CSRF token once per session. A host with CSRF protection
// disabled answers 404 and requests go out without a token.
func (s *SillyTavern) token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.csrfReady {
		return s.csrfToken, nil
	}

	var body struct {
		Token string `json:"token"`
	}
	err := s.api.GetJSON(ctx, csrfPath, &body)
	var statusErr *utils.StatusError
	switch {
	case errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound:
		log.Debug().Msg("host has CSRF protection disabled")
	case err != nil:
		return "", s.wrap("fetch csrf token", err)
	}

	s.csrfToken = body.Token
	s.csrfReady = true
	return s.csrfToken, nil
}

// resetToken drops the cached CSRF token so the next request fetches a new one.
func (s *SillyTavern) resetToken() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.csrfToken = ""
	s.csrfReady = false
}

// post runs send and, when the host answers 403, refetches the CSRF token and
// sends once more. A restarted host issues a new token for the same session.
func (s *SillyTavern) post(send func() error) error {
	err := send()
	var statusErr *utils.StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusForbidden {
		return err
	}
	log.Debug().Str("path", statusErr.Path).Msg("request forbidden, refreshing csrf token")
	s.resetToken()
	return send()
}

// Ping checks that the host answers and the session can be established.
func (s *SillyTavern) Ping(ctx context.Context) error {
	_, err := s.token(ctx)
	return err
}

func (s *SillyTavern) ListThemes(ctx context.Context) ([]string, error) {
	var settings struct {
		Themes []struct {
			Name string `json:"name"`
		} `json:"themes"`
	}
	err := s.post(func() error {
		return s.api.PostJSON(ctx, settingsGetPath, struct{}{}, &settings)
	})
	if err != nil {
		return nil, s.wrap("list themes", err)
	}

	names := make([]string, 0, len(settings.Themes))
	for _, t := range settings.Themes {
		names = append(names, t.Name)
	}
	return names, nil
}

func (s *SillyTavern) SaveTheme(ctx context.Context, theme map[string]any) error {
	err := s.post(func() error {
		return s.api.PostJSON(ctx, themesSavePath, theme, nil)
	})
	if err != nil {
		return s.wrap("save theme", err)
	}
	return nil
}

func (s *SillyTavern) ImportCharacter(ctx context.Context, upload CharacterUpload) (*ImportResponse, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="avatar"; filename=%q`, upload.FileName))
	header.Set("Content-Type", upload.ContentType)
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(upload.Content); err != nil {
		return nil, err
	}
	if err := w.WriteField("file_type", upload.FileType); err != nil {
		return nil, err
	}
	if upload.PreservedName != "" {
		if err := w.WriteField("preserved_name", upload.PreservedName); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	form := buf.Bytes()
	var body []byte
	err = s.post(func() error {
		var err error
		body, err = s.api.PostForm(ctx, charactersImportPath, w.FormDataContentType(), bytes.NewReader(form))
		return err
	})
	if err != nil {
		return nil, s.wrap("import character", err)
	}

	resp := &ImportResponse{}
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, resp); err != nil {
			return nil, &HostError{Op: "import character", Message: fmt.Sprintf("invalid response: %v", err)}
		}
	}
	if msg := resp.ErrorText(); msg != "" {
		return resp, &HostError{Op: "import character", Message: msg}
	}
	return resp, nil
}

// StaticLocation serves extension files from the host under prefix.
func (s *SillyTavern) StaticLocation(prefix string) Location {
	return &HTTPLocation{api: s.api, prefix: prefix}
}

// wrap maps transport and status failures onto the package's error taxonomy.
func (s *SillyTavern) wrap(op string, err error) error {
	if errors.Is(err, ErrHostRejected) || errors.Is(err, ErrHostUnreachable) {
		return err
	}
	var statusErr *utils.StatusError
	if errors.As(err, &statusErr) {
		return &HostError{Op: op, Status: statusErr.Code, Message: statusErr.Body}
	}
	if errors.Is(err, utils.ErrInvalidResponse) {
		return &HostError{Op: op, Message: err.Error()}
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%s: %w: %v", op, ErrHostUnreachable, err)
}
