package fixtures

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Well-known names inside the seed data directory.
const (
	UsersFile       = "users.json"
	AuthFile        = "user_auth_data.json"
	PostsFile       = "posts.json"
	PhotosDir       = "photos"
	PostPicturesDir = "posts_pictures"
)

// SeedUser is one users.json entry: the session captured when the account was
// registered or last logged in.
type SeedUser struct {
	UserID  int64  `json:"user_id"`
	Token   string `json:"token"`
	Message string `json:"message"`
}

// Credential is one user_auth_data.json entry.
type Credential struct {
	Phone     string `json:"phone"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// SeedPost is one posts.json entry. ID is the fixture id used to pair the
// post with its picture; the server assigns its own id on creation.
type SeedPost struct {
	ID          int64   `json:"id"`
	UserID      int64   `json:"user_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Recipient   string  `json:"recipient"`
	Bank        string  `json:"bank"`
	Phone       string  `json:"phone"`
}

type usersFile struct {
	Users []SeedUser `json:"users"`
}

type authFile struct {
	AuthData []Credential `json:"auth_data"`
}

type postsFile struct {
	Posts []SeedPost `json:"posts"`
}

func LoadUsers(path string) ([]SeedUser, error) {
	var f usersFile
	if err := loadJSON(path, &f); err != nil {
		return nil, err
	}
	return f.Users, nil
}

// SaveUsers writes users.json with the 2-space indentation the rest of the
// tooling expects.
func SaveUsers(path string, users []SeedUser) error {
	raw, err := json.MarshalIndent(usersFile{Users: users}, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode users")
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

func LoadCredentials(path string) ([]Credential, error) {
	var f authFile
	if err := loadJSON(path, &f); err != nil {
		return nil, err
	}
	return f.AuthData, nil
}

func LoadPosts(path string) ([]SeedPost, error) {
	var f postsFile
	if err := loadJSON(path, &f); err != nil {
		return nil, err
	}
	return f.Posts, nil
}

func loadJSON(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read %s", path)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.Wrapf(err, "parse %s", path)
	}
	return nil
}

// imageExts is the lookup order for exact-name matches.
var imageExts = []string{".jpg", ".jpeg", ".png", ".webp", ".gif", ".jfif", ".avif", ".bmp"}

// FindImage resolves the image for a numeric id inside dir: first an exact
// <id><ext> probe over the known extensions, then a directory scan for any
// file whose stem equals the id.
func FindImage(dir string, id int64) (string, bool) {
	stem := strconv.FormatInt(id, 10)
	for _, ext := range imageExts {
		p := filepath.Join(dir, stem+ext)
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.TrimSuffix(name, filepath.Ext(name)) == stem {
			return filepath.Join(dir, name), true
		}
	}
	return "", false
}

// ContentTypeFor maps an image extension to its MIME type; unknown extensions
// fall back to image/jpeg, which is what the photo sets mostly contain.
func ContentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	case ".avif":
		return "image/avif"
	case ".bmp":
		return "image/bmp"
	default:
		return "image/jpeg"
	}
}
