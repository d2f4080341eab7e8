// Package cli provides the interactive command-line front end of the vault.
//
// It wires configuration, the credential store, the backup codec and the
// password tools into a small REPL. Typical flow: register or log in, manage
// entries, export or import backups, and generate passwords.
//
// Key features:
//   - Register / Login / Logout (legacy vaults are migrated on login)
//   - list, add, show, delete entries
//   - export, import, backups, info, rmbackup for backup containers
//   - analyze and generate passwords
package cli
