package vault

import (
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/pwvault/internal/common"
	"github.com/dmitrijs2005/pwvault/internal/cryptox"
	"github.com/dmitrijs2005/pwvault/internal/timex"
)

// migration is the outcome of opening a legacy blob.
type migration struct {
	record    *RecordFile
	legacyKey []byte
	candidate string
	// skipped counts legacy entries dropped because they had an empty
	// field or repeated an earlier (site, username).
	skipped int
}

// openLegacy walks the legacy candidate table in order and returns the first
// candidate whose key decrypts the blob into a payload with a passwords
// array. The returned record is in the current format but not yet persisted.
// Site and username are trimmed the way AddEntry stores them.
func openLegacy(blob legacyBlob, username string, password []byte, now time.Time) (*migration, error) {
	for _, c := range cryptox.LegacyCandidates(username) {
		key := cryptox.DeriveLegacyKey(password, c.Salt)

		var payload legacyRecord
		if err := cryptox.DecryptJSON(blob.token, key, &payload); err != nil || payload.Passwords == nil {
			common.WipeByteArray(key)
			continue
		}

		rec := &RecordFile{
			Username:      username,
			PasswordHash:  cryptox.HashPassword(password),
			CreatedAt:     timex.ParseLoose(payload.CreatedAt, now),
			UpdatedAt:     now,
			FormatVersion: FormatVersion,
			LegacyKDF: &LegacyKDF{
				Candidate:  c.Name,
				Salt:       hex.EncodeToString(c.Salt),
				Iterations: cryptox.LegacyIterations,
			},
			Entries: make([]Entry, 0, len(*payload.Passwords)),
		}
		skipped := 0
		for _, p := range *payload.Passwords {
			site, user := strings.TrimSpace(p.Site), strings.TrimSpace(p.Username)
			if site == "" || user == "" || p.Password == "" || rec.indexOf(site, user) >= 0 {
				skipped++
				continue
			}
			rec.Entries = append(rec.Entries, Entry{
				Site:      site,
				Username:  user,
				Secret:    p.Password,
				Notes:     p.Notes,
				CreatedAt: timex.ParseLoose(p.CreatedAt, now),
				UpdatedAt: timex.ParseLoose(p.UpdatedAt, now),
			})
		}
		return &migration{record: rec, legacyKey: key, candidate: c.Name, skipped: skipped}, nil
	}

	if cryptox.IsToken(blob.token) {
		return nil, common.ErrWrongPassword
	}
	return nil, common.ErrCorruptFile
}

// legacyKeyFor rebuilds the legacy key of a migrated record, or returns nil
// for records that never were legacy files.
func legacyKeyFor(rec *RecordFile, password []byte) ([]byte, error) {
	if rec.LegacyKDF == nil {
		return nil, nil
	}
	if rec.LegacyKDF.Iterations != cryptox.LegacyIterations {
		return nil, errors.Join(common.ErrCorruptFile, errors.New("unsupported legacy iteration count"))
	}
	salt, err := hex.DecodeString(rec.LegacyKDF.Salt)
	if err != nil {
		return nil, errors.Join(common.ErrCorruptFile, err)
	}
	return cryptox.DeriveLegacyKey(password, salt), nil
}
