package images

import (
	"regexp"
	"strings"
	"testing"
	"testing/quick"
)

func TestOwnsAdversarialPrefixes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key     string
		subject string
		want    bool
	}{
		{key: "users/abc/images/1.jpg", subject: "abc", want: true},
		{key: "users/abc/", subject: "abc", want: true},
		{key: "users/abc2/images/1.jpg", subject: "abc", want: false},
		{key: "users/ab/images/1.jpg", subject: "abc", want: false},
		{key: "users/abc", subject: "abc", want: false},
		{key: "/users/abc/images/1.jpg", subject: "abc", want: false},
		{key: "Users/abc/images/1.jpg", subject: "abc", want: false},
		{key: "", subject: "abc", want: false},
		{key: "users/other/../abc/images/1.jpg", subject: "abc", want: false},
	}

	for _, tt := range tests {
		if got := Owns(tt.key, tt.subject); got != tt.want {
			t.Fatalf("Owns(%q, %q) = %v, want %v", tt.key, tt.subject, got, tt.want)
		}
	}
}

func TestOwnsMatchesPrefixDefinition(t *testing.T) {
	t.Parallel()

	property := func(key, subject string) bool {
		return Owns(key, subject) == strings.HasPrefix(key, "users/"+subject+"/")
	}
	if err := quick.Check(property, nil); err != nil {
		t.Fatal(err)
	}

	owned := func(subject, rest string) bool {
		return Owns(UserPrefix(subject)+rest, subject)
	}
	if err := quick.Check(owned, nil); err != nil {
		t.Fatal(err)
	}
}

func TestNewKeyPattern(t *testing.T) {
	t.Parallel()

	pattern := regexp.MustCompile(`^users/abc/images/[0-9a-f-]{36}\.(png|jpg)$`)
	token := "123e4567-e89b-12d3-a456-426614174000"

	for _, name := range []string{"cat.png", "README"} {
		key := NewKey("abc", name, token)
		if !pattern.MatchString(key) {
			t.Fatalf("NewKey(%q) = %q does not match %s", name, key, pattern)
		}
		if !Owns(key, "abc") {
			t.Fatalf("subject must own its own key %q", key)
		}
	}
}

func TestExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		fileName string
		want     string
	}{
		{fileName: "cat.png", want: "png"},
		{fileName: "archive.tar.gz", want: "gz"},
		{fileName: "Photo.JPEG", want: "JPEG"},
		{fileName: "README", want: "jpg"},
		{fileName: "trailing.", want: "jpg"},
		{fileName: ".hidden", want: "hidden"},
		{fileName: "evil.x/../../y", want: "_y"},
		{fileName: "a.b/c", want: "b_c"},
		{fileName: `evil.x\y`, want: "x_y"},
	}

	for _, tt := range tests {
		if got := Extension(tt.fileName); got != tt.want {
			t.Fatalf("Extension(%q) = %q, want %q", tt.fileName, got, tt.want)
		}
	}
}
