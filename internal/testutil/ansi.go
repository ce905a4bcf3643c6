// Package testutil holds helpers shared by tests across packages.
package testutil

import "regexp"

// csiSequence matches ANSI CSI escapes such as "\x1b[1;32m".
var csiSequence = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripAnsiCodes removes color and style escapes so output can be compared
// as plain text.
func StripAnsiCodes(s string) string {
	return csiSequence.ReplaceAllString(s, "")
}
