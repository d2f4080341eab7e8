package vault

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/pwvault/internal/common"
	"github.com/dmitrijs2005/pwvault/internal/cryptox"
)

// MinUsernameLength is the shortest accepted username after normalization.
const MinUsernameLength = 3

// reservedUsernames would derive keys shared with other key contexts.
var reservedUsernames = map[string]struct{}{
	cryptox.BackupContext: {},
}

// NormalizeUsername trims and lower-cases username and checks that it can be
// used as a record file name.
func NormalizeUsername(username string) (string, error) {
	u := strings.ToLower(strings.TrimSpace(username))
	if u == "" {
		return "", common.ErrEmptyInput
	}
	if len(u) < MinUsernameLength {
		return "", common.ErrUsernameTooShort
	}
	for _, c := range u {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		case c == '.', c == '_', c == '@', c == '-':
		default:
			return "", common.ErrInvalidUsername
		}
	}
	if strings.Trim(u, ".") == "" {
		return "", common.ErrInvalidUsername
	}
	if _, ok := reservedUsernames[u]; ok {
		return "", fmt.Errorf("%w: %q is reserved", common.ErrInvalidUsername, u)
	}
	return u, nil
}
