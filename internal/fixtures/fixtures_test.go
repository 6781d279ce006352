package fixtures

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadCredentials(t *testing.T) {
	path := writeFile(t, t.TempDir(), AuthFile, `{
	  "auth_data": [
	    {"phone": "+79990001122", "password": "secret1", "first_name": "Anna", "last_name": "Smirnova"},
	    {"phone": "+79990001133", "password": "secret2", "first_name": "Ivan", "last_name": "Petrov"}
	  ]
	}`)
	creds, err := LoadCredentials(path)
	if err != nil {
		t.Fatalf("LoadCredentials: %v", err)
	}
	if len(creds) != 2 || creds[0].Phone != "+79990001122" || creds[1].FirstName != "Ivan" {
		t.Fatalf("unexpected credentials: %+v", creds)
	}
}

func TestLoadPosts(t *testing.T) {
	path := writeFile(t, t.TempDir(), PostsFile, `{
	  "posts": [
	    {"id": 1, "user_id": 7, "title": "Help with treatment", "description": "d",
	     "amount": 3000.5, "recipient": "Anna S.", "bank": "SberBank", "phone": "+79990001122"}
	  ]
	}`)
	posts, err := LoadPosts(path)
	if err != nil {
		t.Fatalf("LoadPosts: %v", err)
	}
	if len(posts) != 1 || posts[0].UserID != 7 || posts[0].Amount != 3000.5 {
		t.Fatalf("unexpected posts: %+v", posts)
	}
}

func TestLoadUsersMissingFile(t *testing.T) {
	if _, err := LoadUsers(filepath.Join(t.TempDir(), UsersFile)); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadMalformed(t *testing.T) {
	path := writeFile(t, t.TempDir(), UsersFile, `{"users": [`)
	if _, err := LoadUsers(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestSaveUsersRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), UsersFile)
	in := []SeedUser{
		{UserID: 1, Token: "tok-1", Message: "registered"},
		{UserID: 2, Token: "tok-2", Message: "registered"},
	}
	if err := SaveUsers(path, in); err != nil {
		t.Fatalf("SaveUsers: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(raw), "{\n  \"users\"") {
		t.Fatalf("expected 2-space indentation, got: %.40s", raw)
	}
	out, err := LoadUsers(path)
	if err != nil {
		t.Fatalf("LoadUsers: %v", err)
	}
	if len(out) != 2 || out[0] != in[0] || out[1] != in[1] {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestFindImage(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "7.png", "png")
	writeFile(t, dir, "12.tiff", "tiff") // unknown extension, stem scan only
	writeFile(t, dir, "30-extra.jpg", "jpg")

	if p, ok := FindImage(dir, 7); !ok || filepath.Base(p) != "7.png" {
		t.Fatalf("exact match failed: %s %v", p, ok)
	}
	if p, ok := FindImage(dir, 12); !ok || filepath.Base(p) != "12.tiff" {
		t.Fatalf("stem scan failed: %s %v", p, ok)
	}
	if _, ok := FindImage(dir, 30); ok {
		t.Fatalf("30-extra.jpg must not match id 30")
	}
	if _, ok := FindImage(dir, 99); ok {
		t.Fatalf("expected no match for 99")
	}
	if _, ok := FindImage(filepath.Join(dir, "absent"), 7); ok {
		t.Fatalf("missing dir must report no match")
	}
}

func TestContentTypeFor(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"a.jpg", "image/jpeg"},
		{"a.JPEG", "image/jpeg"},
		{"a.jfif", "image/jpeg"},
		{"a.png", "image/png"},
		{"a.webp", "image/webp"},
		{"a.gif", "image/gif"},
		{"a.avif", "image/avif"},
		{"a.bmp", "image/bmp"},
		{"a.unknown", "image/jpeg"},
	}
	for _, c := range cases {
		if got := ContentTypeFor(c.path); got != c.want {
			t.Fatalf("ContentTypeFor(%q) = %q, want %q", c.path, got, c.want)
		}
	}
}
