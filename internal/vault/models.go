package vault

import "time"

// FormatVersion is written to every record file produced by this package.
const FormatVersion = "2.0"

// Entry is one stored credential. Secret always holds a cipher token; the
// plaintext is only returned by Store.GetDecryptedSecret.
type Entry struct {
	Site      string    `json:"site"`
	Username  string    `json:"username"`
	Secret    string    `json:"secret"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LegacyKDF remembers which legacy salt unlocked a migrated file so the
// legacy key can be rebuilt on later logins.
type LegacyKDF struct {
	Candidate  string `json:"candidate,omitempty"`
	Salt       string `json:"salt"`
	Iterations int    `json:"iterations"`
}

// RecordFile is the on-disk envelope of one user's vault.
type RecordFile struct {
	Username      string     `json:"username"`
	PasswordHash  string     `json:"password_hash"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	FormatVersion string     `json:"format_version"`
	LegacyKDF     *LegacyKDF `json:"legacy_kdf,omitempty"`
	Entries       []Entry    `json:"entries"`
}

func (r *RecordFile) indexOf(site, username string) int {
	for i, e := range r.Entries {
		if e.Site == site && e.Username == username {
			return i
		}
	}
	return -1
}

// clone returns a copy whose entry slice can be modified independently.
func (r *RecordFile) clone() *RecordFile {
	c := *r
	c.Entries = make([]Entry, len(r.Entries), len(r.Entries)+1)
	copy(c.Entries, r.Entries)
	if r.LegacyKDF != nil {
		kdf := *r.LegacyKDF
		c.LegacyKDF = &kdf
	}
	return &c
}

// legacyRecord is the decrypted payload of a legacy whole-file blob.
type legacyRecord struct {
	Username  string         `json:"username"`
	CreatedAt string         `json:"created_at"`
	Passwords *[]legacyEntry `json:"passwords"`
}

type legacyEntry struct {
	Site      string `json:"site"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	Notes     string `json:"notes"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
