package vault

import (
	"github.com/dmitrijs2005/pwvault/internal/common"
)

// Session is the handle returned by a successful login. It holds the derived
// keys and a snapshot of the record file that is replaced after every
// successful write.
type Session struct {
	ID       string
	Username string
	Migrated bool

	key       []byte
	legacyKey []byte
	record    *RecordFile
}

// Active reports whether the session can still be used.
func (s *Session) Active() bool {
	return s != nil && s.record != nil && s.key != nil
}

// EntryCount returns the number of stored entries.
func (s *Session) EntryCount() int {
	if !s.Active() {
		return 0
	}
	return len(s.record.Entries)
}

func (s *Session) close() {
	common.WipeByteArray(s.key)
	common.WipeByteArray(s.legacyKey)
	s.key = nil
	s.legacyKey = nil
	s.record = nil
}
