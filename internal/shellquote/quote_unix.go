//go:build !windows

package shellquote

// Quote quotes an argument for the host shell.
func Quote(s string) string {
	return QuotePosix(s)
}
