// Package vault implements the credential store: user record files, the
// authentication and migration state machine, and per-entry secret
// encryption.
//
// A record file is plain JSON. Only the secret field of each entry is
// encrypted, with a key derived from the master password and the normalized
// username. Files written by the legacy application are a single encrypted
// blob; they are migrated to the current envelope on the first successful
// login.
package vault
