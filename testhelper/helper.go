// Package testhelper holds helpers shared by package tests.
package testhelper

import (
	"regexp"
	"strings"
	"testing"
)

var leadingSpace = regexp.MustCompile(`^[ \t]+`)

// TrimIndent removes the first line of src and the indentation of the second
// line from every following line, so grammar sources can be written indented
// inside raw strings. Blank lines become empty and tabs left over after
// trimming become four spaces.
func TrimIndent(t *testing.T, src string) string {
	t.Helper()

	lines := strings.Split(src, "\n")
	if len(lines) < 2 {
		return src
	}

	indent := leadingSpace.FindString(lines[1])

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
			continue
		}

		line = strings.TrimPrefix(line, indent)
		lines[i] = leadingSpace.ReplaceAllStringFunc(line, func(match string) string {
			return strings.ReplaceAll(match, "\t", "    ")
		})
	}

	return strings.Join(lines[1:], "\n")
}
