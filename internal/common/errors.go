package common

import "errors"

var (
	// validation errors
	ErrEmptyInput       = errors.New("username and password are required")
	ErrUsernameTooShort = errors.New("username is too short")
	ErrInvalidUsername  = errors.New("username contains invalid characters")
	ErrUsernameTaken    = errors.New("username already exists")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrEmptyField       = errors.New("required field is empty")
	ErrInvalidArgument  = errors.New("invalid argument")

	// authentication errors
	ErrUserNotFound     = errors.New("user not found")
	ErrWrongPassword    = errors.New("wrong password")
	ErrDecryptionFailed = errors.New("decryption failed")
	ErrNotLoggedIn      = errors.New("not logged in")

	// corruption errors
	ErrCorruptFile       = errors.New("corrupt record file")
	ErrCorruptSalt       = errors.New("corrupt backup file (missing salt)")
	ErrMalformedManifest = errors.New("malformed backup manifest")

	// entry / file errors
	ErrNotFound                   = errors.New("not found")
	ErrDuplicateEntry             = errors.New("entry already exists")
	ErrFileNotFound               = errors.New("file not found")
	ErrPathEscapesBackupDirectory = errors.New("path escapes backup directory")

	// disk / filesystem failure; always wraps the underlying cause
	ErrIO = errors.New("i/o failure")

	ErrorInternal = errors.New("internal error")
)
