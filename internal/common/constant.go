// Package common contains shared constants, sentinel errors and small helpers
// used across pwvault components.
package common

// Directory names below the configured data directory.
const (
	UsersDirName   = "users"
	BackupsDirName = "backups"
)

// UnknownLabel is shown wherever a value cannot be derived, e.g. a backup
// file whose name does not follow the naming scheme.
const UnknownLabel = "unknown"
