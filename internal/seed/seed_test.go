package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/givehub/opskit/internal/fixtures"
	"github.com/givehub/opskit/internal/platform"
)

func writeImage(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("img"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRegisterUsers(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/auth/register" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprintf(w, `{"user_id":%d,"token":"tok-%d","message":"registered"}`, calls, calls)
	}))
	defer ts.Close()

	creds := []fixtures.Credential{
		{Phone: "+79990001122", Password: "secret1", FirstName: "Anna", LastName: "Smirnova"},
		{Phone: "", Password: "secret2"},
		{Phone: "+79990001144", Password: "secret3", FirstName: "Ivan", LastName: "Petrov"},
	}
	users, st := RegisterUsers(context.Background(), platform.NewClient(ts.URL), creds, zap.NewNop())
	if st.Succeeded != 2 || st.Failed != 1 || st.Skipped != 0 {
		t.Fatalf("unexpected stats: %+v", st)
	}
	if st.OK() {
		t.Fatalf("run with a failure must not be OK")
	}
	if len(users) != 2 || users[0].UserID != 1 || users[1].Token != "tok-2" {
		t.Fatalf("unexpected users: %+v", users)
	}
	if users[0].Message != "registered" {
		t.Fatalf("server message not kept: %+v", users[0])
	}
}

func TestRefreshTokens(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Phone    string `json:"phone"`
			Password string `json:"password"`
		}
		if err := readJSON(r, &body); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		if body.Phone == "+79990001133" {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"error":{"message":"invalid credentials"}}`)
			return
		}
		fmt.Fprint(w, `{"user_id":5,"token":"fresh-5"}`)
	}))
	defer ts.Close()

	creds := []fixtures.Credential{
		{Phone: "+79990001122", Password: "secret1"},
		{Phone: "+79990001133", Password: "stale"},
	}
	users, st := RefreshTokens(context.Background(), platform.NewClient(ts.URL), creds, zap.NewNop())
	if st.Succeeded != 1 || st.Failed != 1 {
		t.Fatalf("unexpected stats: %+v", st)
	}
	if len(users) != 1 || users[0].Token != "fresh-5" {
		t.Fatalf("unexpected users: %+v", users)
	}
}

func TestUploadAvatars(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, dir, "1.png")
	writeImage(t, dir, "4.jpg")

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse form: %v", err)
		}
		files := r.MultipartForm.File["photo"]
		if len(files) != 1 {
			t.Errorf("expected one photo part")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if files[0].Filename == "4.jpg" {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"error":{"message":"storage down"}}`)
			return
		}
		fmt.Fprint(w, `{"photo_url":"/files/user-photos/users/1/photo.png"}`)
	}))
	defer ts.Close()

	users := []fixtures.SeedUser{
		{UserID: 1, Token: "tok-1"}, // uploads
		{UserID: 2},                 // no token
		{UserID: 3, Token: "tok-3"}, // no photo on disk
		{UserID: 4, Token: "tok-4"}, // server error
		{Token: "tok-x"},            // no user_id
	}
	st := UploadAvatars(context.Background(), platform.NewClient(ts.URL), users, dir, zap.NewNop())
	if st.Succeeded != 1 || st.Failed != 1 || st.Skipped != 3 {
		t.Fatalf("unexpected stats: %+v", st)
	}
}

func TestCreatePosts(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, dir, "1.jpg")

	var sawMedia bool
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse form: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.FormValue("title") {
		case "With picture":
			sawMedia = len(r.MultipartForm.File["media"]) == 1
			w.WriteHeader(http.StatusCreated)
			fmt.Fprint(w, `{"id":101,"status":"active"}`)
		case "Unverified author":
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"error":{"message":"User not verified"}}`)
		default:
			t.Errorf("unexpected title: %q", r.FormValue("title"))
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer ts.Close()

	users := []fixtures.SeedUser{{UserID: 7, Token: "tok-7"}}
	posts := []fixtures.SeedPost{
		{ID: 1, UserID: 7, Title: "With picture", Amount: 100},
		{ID: 2, UserID: 9, Title: "Orphan post", Amount: 50},
		{ID: 3, UserID: 7, Title: "Unverified author", Amount: 10},
	}
	st := CreatePosts(context.Background(), platform.NewClient(ts.URL), users, posts, dir, zap.NewNop())
	if st.Succeeded != 1 || st.Failed != 1 || st.Skipped != 1 {
		t.Fatalf("unexpected stats: %+v", st)
	}
	if !sawMedia {
		t.Fatalf("picture was not attached as media part")
	}
}

func TestCheckPosts(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":[
			{"id":10,"user_id":7,"title":"  Help   With Treatment ","amount":3000.004},
			{"id":11,"user_id":7,"title":"Warm clothes","amount":60},
			{"id":12,"user_id":8,"title":"Unrelated","amount":5},
			{"id":13,"user_id":8,"title":"Another","amount":6}
		],"pagination":{"page":1,"total_pages":1}}`)
	}))
	defer ts.Close()

	expected := []fixtures.SeedPost{
		{ID: 1, UserID: 7, Title: "help with treatment", Amount: 3000},
		{ID: 2, UserID: 7, Title: "Warm Clothes", Amount: 50},
		{ID: 3, UserID: 9, Title: "Ghost", Amount: 10},
	}
	rep, err := CheckPosts(context.Background(), platform.NewClient(ts.URL), expected, zap.NewNop())
	if err != nil {
		t.Fatalf("CheckPosts: %v", err)
	}
	if len(rep.Found) != 2 || len(rep.Missing) != 1 {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if rep.Missing[0].ID != 3 {
		t.Fatalf("wrong missing post: %+v", rep.Missing)
	}
	if !rep.Found[0].AmountMatch {
		t.Fatalf("0.004 difference must be within tolerance")
	}
	if rep.AmountMismatches() != 1 {
		t.Fatalf("expected one amount mismatch, got %d", rep.AmountMismatches())
	}
	if rep.Extra != 1 {
		t.Fatalf("expected one extra server post, got %d", rep.Extra)
	}
	if rep.OK() {
		t.Fatalf("report with missing posts must not be OK")
	}
}

func TestCheckPostsFetchError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	if _, err := CheckPosts(context.Background(), platform.NewClient(ts.URL), nil, zap.NewNop()); err == nil {
		t.Fatalf("expected fetch error")
	}
}

func TestNormalizeTitle(t *testing.T) {
	cases := []struct{ in, want string }{
		{"  Help   NOW ", "help now"},
		{"help now", "help now"},
		{"\tHELP\nNOW", "help now"},
	}
	for _, c := range cases {
		if got := normalizeTitle(c.in); got != c.want {
			t.Fatalf("normalizeTitle(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
