package checksum

import "testing"

func TestSum(t *testing.T) {
	// sha256("")
	if got := Sum(nil); got != "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855" {
		t.Errorf("Sum(nil) = %s", got)
	}
	if Sum([]byte("a")) == Sum([]byte("b")) {
		t.Error("different input should give different sums")
	}
}

func TestFromIfMatch(t *testing.T) {
	v := Sum([]byte(`{"nodes":[],"flows":[]}`))
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"*", ""},
		{ETag(v), v},
		{"W/" + ETag(v), v},
		{" " + ETag(v) + " ", v},
		{v, v},
	}
	for _, tt := range tests {
		if got := FromIfMatch(tt.header); got != tt.want {
			t.Errorf("FromIfMatch(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}
