// Package shellquote quotes command-line arguments for the host shell.
//
// POSIX shells and the Windows command shell disagree on quoting rules:
// POSIX uses single quotes with a close-escape-reopen dance for embedded
// quotes, while cmd wraps in double quotes and doubles embedded quote
// characters. Quote follows the build target; both flavors are exported
// for callers composing commands for a remote side.
package shellquote

import "strings"

// posixSafe are the characters that need no quoting in POSIX shells.
const posixSafe = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789@%+=:,./_-"

// cmdSpecial are characters that force quoting under the Windows shell.
const cmdSpecial = " \t\"&|<>^()%!"

// QuotePosix returns the argument quoted for POSIX shells. The result
// splits back to the original argument under standard shell word splitting.
func QuotePosix(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsFunc(s, func(r rune) bool {
		return !strings.ContainsRune(posixSafe, r)
	}) {
		return s
	}
	// Close the single-quoted string, emit an escaped quote, reopen.
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

// QuoteCmd returns the argument quoted for the Windows command shell:
// unchanged when no special characters are present, otherwise wrapped in
// double quotes with embedded quotes doubled.
func QuoteCmd(s string) string {
	if s == "" {
		return `""`
	}
	if !strings.ContainsAny(s, cmdSpecial) {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// QuoteCommand quotes each argument for the build target's shell and joins
// them with spaces.
func QuoteCommand(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		quoted[i] = Quote(arg)
	}
	return strings.Join(quoted, " ")
}
