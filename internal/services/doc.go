// Package services is the API consumed by the user interface. Every call
// returns a result and an error; common.Message turns the error into the text
// shown to the user.
package services
