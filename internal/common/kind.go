package common

import "errors"

// Kind is the error category reported to callers of the service layer.
type Kind string

const (
	KindNone           Kind = ""
	KindValidation     Kind = "validation"
	KindAuthentication Kind = "authentication"
	KindCorruption     Kind = "corruption"
	KindNotFound       Kind = "not_found"
	KindConflict       Kind = "conflict"
	KindIO             Kind = "io"
	KindInternal       Kind = "internal"
)

// taxonomy is matched in order, so more specific sentinels come first.
var taxonomy = []struct {
	err  error
	kind Kind
	msg  string
}{
	{ErrEmptyInput, KindValidation, "Username and password are required"},
	{ErrUsernameTooShort, KindValidation, "Username must be at least 3 characters long"},
	{ErrInvalidUsername, KindValidation, "Username may only contain letters, digits, '.', '_', '-' and '@'"},
	{ErrUsernameTaken, KindValidation, "Username already exists"},
	{ErrPasswordMismatch, KindValidation, "Passwords do not match"},
	{ErrEmptyField, KindValidation, "Site, username and password are required"},
	{ErrInvalidArgument, KindValidation, "Invalid command argument"},
	{ErrPathEscapesBackupDirectory, KindValidation, "File is not inside the backup directory"},

	{ErrUserNotFound, KindAuthentication, "Username not found"},
	{ErrWrongPassword, KindAuthentication, "Wrong password or corrupted file"},
	{ErrDecryptionFailed, KindAuthentication, "Unable to decrypt the stored password"},
	{ErrNotLoggedIn, KindAuthentication, "Please log in first"},

	{ErrCorruptFile, KindCorruption, "The user file is corrupted"},
	{ErrCorruptSalt, KindCorruption, "Corrupted backup file (missing salt)"},
	{ErrMalformedManifest, KindCorruption, "Invalid backup format"},

	{ErrNotFound, KindNotFound, "Entry not found"},
	{ErrFileNotFound, KindNotFound, "Backup file not found"},
	{ErrDuplicateEntry, KindConflict, "An entry for this site and username already exists"},
}

// KindOf classifies err. Errors wrapping ErrIO are KindIO, anything else
// outside the taxonomy is KindInternal, and a nil error yields KindNone.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	for _, t := range taxonomy {
		if errors.Is(err, t.err) {
			return t.kind
		}
	}
	if errors.Is(err, ErrIO) {
		return KindIO
	}
	return KindInternal
}

// Message returns a human-readable message for err suitable for showing to
// the user. I/O and internal failures include the underlying cause.
func Message(err error) string {
	if err == nil {
		return "OK"
	}
	for _, t := range taxonomy {
		if errors.Is(err, t.err) {
			return t.msg
		}
	}
	if errors.Is(err, ErrIO) {
		return "File system error: " + err.Error()
	}
	return "Unexpected error: " + err.Error()
}
