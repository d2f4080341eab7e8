package backup

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/pwvault/internal/common"
	"github.com/dmitrijs2005/pwvault/internal/timex"
	"github.com/xeipuuv/gojsonschema"
)

// ManifestVersion is written to every exported manifest.
const ManifestVersion = "2.0"

// Entry is one credential inside a backup. Secret is plaintext.
type Entry struct {
	Site      string    `json:"site"`
	Username  string    `json:"username"`
	Secret    string    `json:"secret"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Manifest is the decrypted payload of a backup container.
type Manifest struct {
	FormatVersion string    `json:"format_version"`
	Username      string    `json:"username"`
	CreatedAt     time.Time `json:"created_at"`
	EntryCount    int       `json:"entry_count"`
	Entries       []Entry   `json:"entries"`
}

// ManifestInfo is the header of a manifest, without entries.
type ManifestInfo struct {
	Path          string
	Size          int64
	FormatVersion string
	Username      string
	CreatedAt     time.Time
	EntryCount    int
}

type legacyManifest struct {
	Version       string        `json:"version"`
	Username      string        `json:"username"`
	ExportDate    string        `json:"export_date"`
	PasswordCount int           `json:"password_count"`
	Passwords     []legacyEntry `json:"passwords"`
}

type legacyEntry struct {
	Site      string  `json:"site"`
	Username  string  `json:"username"`
	Password  string  `json:"password"`
	Notes     *string `json:"notes"`
	CreatedAt *string `json:"created_at"`
	UpdatedAt *string `json:"updated_at"`
}

var (
	//go:embed schema/manifest.json
	manifestSchemaJSON string

	//go:embed schema/manifest_legacy.json
	legacyManifestSchemaJSON string

	manifestSchema       = mustSchema(manifestSchemaJSON)
	legacyManifestSchema = mustSchema(legacyManifestSchemaJSON)
)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("backup: invalid embedded schema: %v", err))
	}
	return s
}

func schemaErrors(res *gojsonschema.Result) string {
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.Field()+": "+e.Description())
	}
	return strings.Join(msgs, "; ")
}

// decodeManifest validates plaintext against the current layout and, failing
// that, the legacy one. Legacy manifests are normalized to Manifest.
func decodeManifest(plaintext []byte) (*Manifest, error) {
	if !json.Valid(plaintext) {
		return nil, fmt.Errorf("%w: payload is not JSON", common.ErrMalformedManifest)
	}
	doc := gojsonschema.NewBytesLoader(plaintext)

	res, err := manifestSchema.Validate(doc)
	if err != nil {
		return nil, errors.Join(common.ErrMalformedManifest, err)
	}
	if res.Valid() {
		var m Manifest
		if err := json.Unmarshal(plaintext, &m); err != nil {
			return nil, errors.Join(common.ErrMalformedManifest, err)
		}
		if m.Entries == nil {
			m.Entries = []Entry{}
		}
		m.EntryCount = len(m.Entries)
		return &m, nil
	}
	current := schemaErrors(res)

	legacyRes, err := legacyManifestSchema.Validate(doc)
	if err != nil {
		return nil, errors.Join(common.ErrMalformedManifest, err)
	}
	if !legacyRes.Valid() {
		return nil, fmt.Errorf("%w: %s", common.ErrMalformedManifest, current)
	}

	var lm legacyManifest
	if err := json.Unmarshal(plaintext, &lm); err != nil {
		return nil, errors.Join(common.ErrMalformedManifest, err)
	}
	return lm.normalize(), nil
}

func (lm *legacyManifest) normalize() *Manifest {
	created := timex.ParseLoose(lm.ExportDate, time.Time{})
	m := &Manifest{
		FormatVersion: lm.Version,
		Username:      lm.Username,
		CreatedAt:     created,
		Entries:       make([]Entry, 0, len(lm.Passwords)),
	}
	for _, p := range lm.Passwords {
		m.Entries = append(m.Entries, Entry{
			Site:      p.Site,
			Username:  p.Username,
			Secret:    p.Password,
			Notes:     deref(p.Notes),
			CreatedAt: timex.ParseLoose(deref(p.CreatedAt), created),
			UpdatedAt: timex.ParseLoose(deref(p.UpdatedAt), created),
		})
	}
	m.EntryCount = len(m.Entries)
	return m
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
