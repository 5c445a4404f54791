package sanitize

import "testing"

func TestText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain text untouched", input: "we ship things", want: "we ship things"},
		{name: "tags stripped", input: "<script>alert(1)</script>hello", want: "alert(1)hello"},
		{name: "encoded tags stripped", input: "&lt;img src=x onerror=alert(1)&gt;safe", want: "safe"},
		{name: "entities decoded", input: "Tom &amp; Jerry", want: "Tom & Jerry"},
		{name: "whitespace trimmed", input: "  padded  ", want: "padded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Text(tt.input); got != tt.want {
				t.Errorf("Text(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
