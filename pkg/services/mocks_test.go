package services

import (
	"context"
	"errors"
	"fmt"
	"testing/fstest"

	"github.com/kerbaras/lucollection/pkg/data"
	"github.com/kerbaras/lucollection/pkg/sources"
)

// Mock implementations for testing

type mockHost struct {
	listThemesFunc      func(ctx context.Context) ([]string, error)
	saveThemeFunc       func(ctx context.Context, theme map[string]any) error
	importCharacterFunc func(ctx context.Context, upload sources.CharacterUpload) (*sources.ImportResponse, error)

	listCalls int
	saved     []map[string]any
	uploads   []sources.CharacterUpload
}

func (m *mockHost) ListThemes(ctx context.Context) ([]string, error) {
	m.listCalls++
	if m.listThemesFunc != nil {
		return m.listThemesFunc(ctx)
	}
	return nil, nil
}

func (m *mockHost) SaveTheme(ctx context.Context, theme map[string]any) error {
	m.saved = append(m.saved, theme)
	if m.saveThemeFunc != nil {
		return m.saveThemeFunc(ctx, theme)
	}
	return nil
}

func (m *mockHost) ImportCharacter(ctx context.Context, upload sources.CharacterUpload) (*sources.ImportResponse, error) {
	m.uploads = append(m.uploads, upload)
	if m.importCharacterFunc != nil {
		return m.importCharacterFunc(ctx, upload)
	}
	return &sources.ImportResponse{}, nil
}

type mockLocation struct {
	name      string
	fetchFunc func(ctx context.Context, path string) ([]byte, error)
	calls     []string
}

func (m *mockLocation) Name() string {
	return m.name
}

func (m *mockLocation) Fetch(ctx context.Context, path string) ([]byte, error) {
	m.calls = append(m.calls, path)
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, path)
	}
	return nil, fmt.Errorf("%w: %s", sources.ErrAssetNotFound, path)
}

type mockHistory struct {
	records []*data.ImportRecord
	err     error
}

func (m *mockHistory) RecordImport(rec *data.ImportRecord) error {
	m.records = append(m.records, rec)
	return m.err
}

var errBoom = errors.New("boom")

// pngBytes is a 1x1 PNG without card metadata.
var pngBytes = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
	0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x02, 0x00, 0x00, 0x00, 0x90, 0x77, 0x53,
	0xDE, 0x00, 0x00, 0x00, 0x0C, 0x49, 0x44, 0x41,
	0x54, 0x08, 0x99, 0x63, 0xF8, 0x0F, 0x00, 0x00,
	0x01, 0x01, 0x00, 0x05, 0x18, 0x0D, 0xA3, 0xD2,
	0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4E, 0x44,
	0xAE, 0x42, 0x60, 0x82,
}

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"themes/dark.json":       {Data: []byte(`{"name":"Dark","main_text_color":"#fff"}`)},
		"themes/nameless.json":   {Data: []byte(`{"main_text_color":"#fff"}`)},
		"characters/a.png":       {Data: pngBytes},
		"characters/b.json":      {Data: []byte(`{"spec":"chara_card_v2","data":{"name":"B","description":"card b"}}`)},
		"characters/broken.png":  {Data: []byte("not a png")},
		"characters/broken.json": {Data: []byte(`[1,2]`)},
	}
}

func themeEntry(name, file string) data.ManifestEntry {
	return data.ManifestEntry{Name: name, File: file, Type: data.AssetJSON, Kind: data.KindTheme}
}

func charEntry(name, file string, t data.AssetType) data.ManifestEntry {
	return data.ManifestEntry{Name: name, File: file, Type: t, Kind: data.KindCharacter}
}
