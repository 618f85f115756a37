package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/till/app/models"
	"github.com/shashiranjanraj/till/pkg/crypt"
	"github.com/shashiranjanraj/till/pkg/storage"
)

func TestSettingsRepository_DefaultWhenUnset(t *testing.T) {
	repo := NewSettingsRepository(storage.NewLocal(t.TempDir(), ""), crypt.New("k"))
	assert.Equal(t, models.Settings{}, repo.Load())
}

func TestSettingsRepository_RoundTripSealsCredential(t *testing.T) {
	disk := storage.NewLocal(t.TempDir(), "")
	repo := NewSettingsRepository(disk, crypt.New("k"))

	in := models.Settings{UseCloud: true, RemoteEndpoint: "postgres://pos@db/pos", RemoteCredential: "pw"}
	require.NoError(t, repo.Save(in))

	raw, err := disk.Get(SettingsKey)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"pw"`)
	assert.Contains(t, string(raw), sealedPrefix)

	assert.Equal(t, in, repo.Load())
}

func TestSettingsRepository_PlainCredentialAccepted(t *testing.T) {
	disk := storage.NewLocal(t.TempDir(), "")
	require.NoError(t, disk.Put(SettingsKey, []byte(`{"useCloud":true,"remoteEndpoint":"sqlite://x.db","remoteCredential":"plain"}`)))

	repo := NewSettingsRepository(disk, crypt.New("k"))
	assert.Equal(t, "plain", repo.Load().RemoteCredential)
}

func TestSettingsRepository_WrongKeyClearsCredential(t *testing.T) {
	disk := storage.NewLocal(t.TempDir(), "")
	require.NoError(t, NewSettingsRepository(disk, crypt.New("one")).Save(models.Settings{RemoteCredential: "pw"}))

	got := NewSettingsRepository(disk, crypt.New("two")).Load()
	assert.Empty(t, got.RemoteCredential)
}

func TestSettingsRepository_CorruptFallsBackToDefault(t *testing.T) {
	disk := storage.NewLocal(t.TempDir(), "")
	require.NoError(t, disk.Put(SettingsKey, []byte("]")))

	repo := NewSettingsRepository(disk, crypt.New("k"))
	assert.Equal(t, models.Settings{}, repo.Load())
}
