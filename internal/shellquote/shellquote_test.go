package shellquote

import (
	"runtime"
	"strings"
	"testing"
)

func TestQuotePosix(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "''"},
		{"simple", "simple"},
		{"path/to/file.txt", "path/to/file.txt"},
		{"has space", "'has space'"},
		{"tab\there", "'tab\there'"},
		{"don't", `'don'"'"'t'`},
		{"$HOME", "'$HOME'"},
		{"a;b", "'a;b'"},
		{"back\\slash", "'back\\slash'"},
		{"*glob*", "'*glob*'"},
	}

	for _, tt := range tests {
		if got := QuotePosix(tt.in); got != tt.want {
			t.Errorf("QuotePosix(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestQuotePosix_RoundTrip(t *testing.T) {
	args := []string{
		"plain",
		"two words",
		"it's quoted",
		`she said "hi"`,
		"$VAR and `cmd` and \\back",
		"trailing space ",
		"--flag=value with space",
		"",
	}

	for _, arg := range args {
		quoted := QuotePosix(arg)
		words, err := SplitPosix(quoted)
		if err != nil {
			t.Fatalf("SplitPosix(%q) failed: %v", quoted, err)
		}
		if len(words) != 1 || words[0] != arg {
			t.Errorf("round trip of %q via %q = %v", arg, quoted, words)
		}
	}
}

func TestQuoteCmd(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", `""`},
		{"simple", "simple"},
		{"C:\\path\\file.txt", "C:\\path\\file.txt"},
		{"has space", `"has space"`},
		{`say "hi"`, `"say ""hi"""`},
		{"a&b", `"a&b"`},
		{"50%off", `"50%off"`},
		{"pipe|here", `"pipe|here"`},
	}

	for _, tt := range tests {
		if got := QuoteCmd(tt.in); got != tt.want {
			t.Errorf("QuoteCmd(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// unquoteCmd reverses cmd-style quoting: strips the outer quotes and
// collapses doubled quote characters.
func unquoteCmd(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return strings.ReplaceAll(s[1:len(s)-1], `""`, `"`)
	}
	return s
}

func TestQuoteCmd_RoundTrip(t *testing.T) {
	args := []string{
		"plain",
		"two words",
		`embedded "quote" chars`,
		`"`,
		"a & b | c",
		"",
	}

	for _, arg := range args {
		quoted := QuoteCmd(arg)
		if got := unquoteCmd(quoted); got != arg {
			t.Errorf("round trip of %q via %q = %q", arg, quoted, got)
		}
	}
}

func TestSplitPosix(t *testing.T) {
	tests := []struct {
		in      string
		want    []string
		wantErr bool
	}{
		{"a b c", []string{"a", "b", "c"}, false},
		{"  leading  and   trailing  ", []string{"leading", "and", "trailing"}, false},
		{"'single quoted'", []string{"single quoted"}, false},
		{`"double quoted"`, []string{"double quoted"}, false},
		{`"escaped \" quote"`, []string{`escaped " quote`}, false},
		{`back\ slash`, []string{"back slash"}, false},
		{"mixed'up'words", []string{"mixedupwords"}, false},
		{"", nil, false},
		{"'unterminated", nil, true},
		{`"unterminated`, nil, true},
		{`trailing\`, nil, true},
	}

	for _, tt := range tests {
		got, err := SplitPosix(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("SplitPosix(%q) succeeded, want error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("SplitPosix(%q) failed: %v", tt.in, err)
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("SplitPosix(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("SplitPosix(%q) = %v, want %v", tt.in, got, tt.want)
				break
			}
		}
	}
}

func TestQuoteCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("QuoteCommand follows cmd rules on windows")
	}
	got := QuoteCommand([]string{"grep", "-n", "two words", "file.txt"})
	words, err := SplitPosix(got)
	if err != nil {
		t.Fatalf("SplitPosix(%q) failed: %v", got, err)
	}
	want := []string{"grep", "-n", "two words", "file.txt"}
	if len(words) != len(want) {
		t.Fatalf("QuoteCommand round trip = %v, want %v", words, want)
	}
	for i := range want {
		if words[i] != want[i] {
			t.Fatalf("QuoteCommand round trip = %v, want %v", words, want)
		}
	}
}
