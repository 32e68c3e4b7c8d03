// Package metadata strips the optional leading metadata preamble a
// source file may carry ahead of the part handed to the lexer.
package metadata

import "strings"

const marker = "---"

// Parse splits input into its metadata preamble and the source text
// that follows it. A file has a preamble only when some line, taken on
// its own, is exactly "---"; everything before that line is meta,
// everything after the blank line that must follow it is rest. A file
// with no such marker line has no preamble: meta is empty and rest is
// the whole input.
func Parse(input string) (meta string, rest string) {
	lines := strings.Split(input, "\n")
	for i, line := range lines {
		if strings.TrimSuffix(line, "\r") != marker {
			continue
		}
		if i+1 >= len(lines) || strings.TrimSuffix(lines[i+1], "\r") != "" {
			continue // not followed by the required blank line
		}
		meta = strings.Join(lines[:i], "\n")
		rest = strings.Join(lines[i+2:], "\n")
		return meta, rest
	}
	return "", input
}
