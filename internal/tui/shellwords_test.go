package tui

import (
	"reflect"
	"testing"
)

func TestSplitCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"xdg-open", []string{"xdg-open"}},
		{"code --wait", []string{"code", "--wait"}},
		{"vim -u 'foo bar'", []string{"vim", "-u", "foo bar"}},
		{"open -a \"Text Edit\"", []string{"open", "-a", "Text Edit"}},
		{"my\\ viewer -r", []string{"my viewer", "-r"}},
		{"viewer ''", []string{"viewer", ""}},
	}

	for _, tt := range tests {
		got, err := splitCommand(tt.in)
		if err != nil {
			t.Fatalf("splitCommand(%q): %v", tt.in, err)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("splitCommand(%q)=%q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSplitCommand_UnterminatedQuote(t *testing.T) {
	t.Parallel()

	if _, err := splitCommand("code 'oops"); err == nil {
		t.Fatalf("expected error for unterminated quote")
	}
}
