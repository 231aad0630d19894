package httputil

import (
	"net/url"
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"valid HTTPS", "https://example.com/path", false},
		{"HTTP rejected", "http://example.com/path", true},
		{"javascript scheme rejected", "javascript:alert(1)", true},
		{"data scheme rejected", "data:text/html,<h1>Hi</h1>", true},
		{"FTP rejected", "ftp://example.com/file", true},
		{"empty string", "", true},
		{"no host", "https://", true},
		{"valid with port", "https://example.com:8080/path", false},
		{"valid with query", "https://example.com/path?q=test&a=b", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"slug", "overflow-episode-1", false},
		{"nested slug", "watch/some-title-2", false},
		{"dotted", "v1.2", false},
		{"numeric", "12345", false},
		{"empty", "", true},
		{"path traversal dots", "../../etc/passwd", true},
		{"shell injection semicolon", "123; rm -rf /", true},
		{"shell injection backtick", "123`whoami`", true},
		{"query smuggling", "abc?page=2", true},
		{"newline injection", "123\n456", true},
		{"too long", string(make([]byte, 300)), true},
		{"spaces", "title with spaces", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestValidateNumericID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"valid", "12345", false},
		{"zero", "0", false},
		{"empty", "", true},
		{"letters", "abc", true},
		{"negative", "-1", true},
		{"decimal", "1.5", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNumericID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNumericID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"store key", "translation-cache", "translation-cache"},
		{"path traversal", "../../etc/passwd", "passwd"},
		{"colon", "id:hello", "id_hello"},
		{"null bytes", "cache\x00.json", "cache.json"},
		{"empty string", "", "untitled"},
		{"just dots", "..", "untitled"},
		{"just dot", ".", "untitled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeFilename(tt.input)
			if got != tt.expected {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		ref  string
		want string
	}{
		{"absolute kept", "https://b.example", "https://cdn.example/x.jpg", "https://cdn.example/x.jpg"},
		{"root relative", "https://b.example/api", "/covers/x.jpg", "https://b.example/covers/x.jpg"},
		{"path relative", "https://b.example/api", "covers/x.jpg", "https://b.example/api/covers/x.jpg"},
		{"protocol relative", "https://b.example", "//cdn.example/x.jpg", "https://cdn.example/x.jpg"},
		{"empty", "https://b.example", "  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveURL(tt.base, tt.ref); got != tt.want {
				t.Errorf("ResolveURL(%q, %q) = %q, want %q", tt.base, tt.ref, got, tt.want)
			}
		})
	}
}

func TestBuildURL(t *testing.T) {
	got := BuildURL("https://b.example/", "search", "kimi no na wa")
	want := "https://b.example/search/kimi%20no%20na%20wa"
	if got != want {
		t.Errorf("BuildURL = %q, want %q", got, want)
	}
}

func TestWithQuery(t *testing.T) {
	got := WithQuery("https://a.example/api/search", url.Values{"q": {"a&b"}})
	if got != "https://a.example/api/search?q=a%26b" {
		t.Errorf("WithQuery = %q", got)
	}
	got = WithQuery("https://a.example/x?k=1", url.Values{"page": {"2"}})
	if got != "https://a.example/x?k=1&page=2" {
		t.Errorf("WithQuery with existing query = %q", got)
	}
	if got := WithQuery("https://a.example", nil); got != "https://a.example" {
		t.Errorf("WithQuery(nil) = %q", got)
	}
}
