package repositories

import (
	"fmt"
	"strings"

	"github.com/shashiranjanraj/till/app/models"
	"github.com/shashiranjanraj/till/pkg/crypt"
	"github.com/shashiranjanraj/till/pkg/logger"
	"github.com/shashiranjanraj/till/pkg/storage"
)

const sealedPrefix = "enc:"

// SettingsRepository persists the settings record on the local disk only.
// The credential is sealed at rest; a credential written by hand in plain
// text is still accepted on load.
type SettingsRepository struct {
	disk storage.Disk
	box  *crypt.Box
}

func NewSettingsRepository(disk storage.Disk, box *crypt.Box) *SettingsRepository {
	return &SettingsRepository{disk: disk, box: box}
}

// Load returns the stored settings, or the zero value (local mode, empty
// credentials) when none exist or the document cannot be read.
func (r *SettingsRepository) Load() models.Settings {
	var s models.Settings
	found, err := readJSON(r.disk, SettingsKey, &s)
	if err != nil {
		logger.Warn("settings: unreadable, using defaults", "error", err)
		return models.Settings{}
	}
	if !found {
		return models.Settings{}
	}

	if sealed, ok := strings.CutPrefix(s.RemoteCredential, sealedPrefix); ok {
		plain, err := r.box.Open(sealed)
		if err != nil {
			logger.Warn("settings: credential cannot be decrypted, clearing it", "error", err)
			plain = ""
		}
		s.RemoteCredential = plain
	}
	return s
}

// Save overwrites the stored record wholesale.
func (r *SettingsRepository) Save(s models.Settings) error {
	if s.RemoteCredential != "" {
		sealed, err := r.box.Seal(s.RemoteCredential)
		if err != nil {
			return fmt.Errorf("settings: seal credential: %w", err)
		}
		s.RemoteCredential = sealedPrefix + sealed
	}
	return writeJSON(r.disk, SettingsKey, s)
}
