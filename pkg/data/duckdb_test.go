package data

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *Repository {
	t.Helper()

	repo, err := NewDuckDBRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to init DB: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestLoadSettingsDefaults(t *testing.T) {
	repo := setupTestDB(t)

	settings, err := repo.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), settings)
}

func TestSettingsRoundTrip(t *testing.T) {
	repo := setupTestDB(t)

	want := Settings{OverwriteThemes: false, OverwriteCharacters: true}
	require.NoError(t, repo.SaveSettings(want))

	got, err := repo.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	raw, ok, err := repo.Get(SettingsKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"overwriteCharacters":true,"overwriteThemes":false}`, raw)
}

func TestLoadSettingsMergesPartialRecord(t *testing.T) {
	repo := setupTestDB(t)

	require.NoError(t, repo.Put(SettingsKey, `{"overwriteCharacters":true}`))

	got, err := repo.LoadSettings()
	require.NoError(t, err)
	assert.True(t, got.OverwriteCharacters)
	assert.True(t, got.OverwriteThemes, "missing field should keep its default")
}

func TestLoadSettingsIgnoresCorruptRecord(t *testing.T) {
	repo := setupTestDB(t)

	require.NoError(t, repo.Put(SettingsKey, `{not json`))

	got, err := repo.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), got)
}

func TestPutOverwrites(t *testing.T) {
	repo := setupTestDB(t)

	require.NoError(t, repo.Put("k", "one"))
	require.NoError(t, repo.Put("k", "two"))

	value, ok, err := repo.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "two", value)

	_, ok, err = repo.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRecordAndListImports(t *testing.T) {
	repo := setupTestDB(t)

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	records := []*ImportRecord{
		{EntryName: "Dark", Kind: KindTheme, FinalName: "Dark", Success: true, ImportedAt: base},
		{EntryName: "Dark", Kind: KindTheme, FinalName: "Dark1", Success: true, WasRenamed: true, ImportedAt: base.Add(time.Minute)},
		{EntryName: "Zhou Yu", Kind: KindCharacter, Success: false, Error: "host rejected", ImportedAt: base.Add(2 * time.Minute)},
	}
	for _, rec := range records {
		require.NoError(t, repo.RecordImport(rec))
		assert.NotZero(t, rec.ID)
	}

	all, err := repo.ListImports(0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Zhou Yu", all[0].EntryName)
	assert.Equal(t, "host rejected", all[0].Error)
	assert.Equal(t, KindCharacter, all[0].Kind)

	limited, err := repo.ListImports(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	latest, err := repo.LatestImports()
	require.NoError(t, err)
	require.Len(t, latest, 2)
	dark := latest[ImportKey(KindTheme, "Dark")]
	require.NotNil(t, dark)
	assert.Equal(t, "Dark1", dark.FinalName)
	assert.True(t, dark.WasRenamed)
}
