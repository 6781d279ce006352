package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const listPageSize = 100

// Client talks to the platform's REST API. The timeout covers whole requests,
// uploads included.
type Client struct {
	baseURL string
	httpc   *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 60 * time.Second},
	}
}

// Register creates an account and returns the fresh session.
func (c *Client) Register(ctx context.Context, cred Credentials) (*Session, error) {
	var out Session
	if err := c.postJSON(ctx, "/api/v1/auth/register", cred, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates an existing account.
func (c *Client) Login(ctx context.Context, phone, password string) (*Session, error) {
	payload := struct {
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}{phone, password}
	var out Session
	if err := c.postJSON(ctx, "/api/v1/auth/login", payload, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadAvatar sends the image as the "photo" multipart field and returns the
// stored photo URL.
func (c *Client) UploadAvatar(ctx context.Context, token string, photo Upload) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := createFilePart(mw, "photo", photo.Name, photo.ContentType)
	if err != nil {
		return "", errors.Wrap(err, "build form")
	}
	if _, err := io.Copy(part, photo.Reader); err != nil {
		return "", errors.Wrapf(err, "read %s", photo.Name)
	}
	if err := mw.Close(); err != nil {
		return "", errors.Wrap(err, "finish form")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/users/me/photo", &buf)
	if err != nil {
		return "", errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "POST /api/v1/users/me/photo")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", decodeError(resp)
	}
	var out struct {
		PhotoURL string `json:"photo_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", errors.Wrap(err, "decode photo response")
	}
	return out.PhotoURL, nil
}

// CreatePost submits a post as multipart form data. media is optional.
func (c *Client) CreatePost(ctx context.Context, token string, draft PostDraft, media *Upload) (*Post, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := [][2]string{
		{"title", draft.Title},
		{"description", draft.Description},
		{"amount", strconv.FormatFloat(draft.Amount, 'f', -1, 64)},
		{"recipient", draft.Recipient},
		{"bank", draft.Bank},
		{"phone", draft.Phone},
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return nil, errors.Wrapf(err, "write field %s", f[0])
		}
	}
	if media != nil {
		part, err := createFilePart(mw, "media", media.Name, media.ContentType)
		if err != nil {
			return nil, errors.Wrap(err, "build form")
		}
		if _, err := io.Copy(part, media.Reader); err != nil {
			return nil, errors.Wrapf(err, "read %s", media.Name)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, errors.Wrap(err, "finish form")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/posts", &buf)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "POST /api/v1/posts")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return nil, decodeError(resp)
	}
	var out Post
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errors.Wrap(err, "decode post response")
	}
	return &out, nil
}

// ListPosts fetches every post, walking the paginated endpoint.
func (c *Client) ListPosts(ctx context.Context) ([]Post, error) {
	var all []Post
	for page := 1; ; page++ {
		u := fmt.Sprintf("%s/api/v1/posts?page=%d&limit=%d", c.baseURL, page, listPageSize)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, errors.Wrap(err, "build request")
		}
		resp, err := c.httpc.Do(req)
		if err != nil {
			return nil, errors.Wrap(err, "GET /api/v1/posts")
		}
		if resp.StatusCode != http.StatusOK {
			err := decodeError(resp)
			resp.Body.Close()
			return nil, err
		}
		var out struct {
			Data       []Post `json:"data"`
			Pagination struct {
				Page       int `json:"page"`
				TotalPages int `json:"total_pages"`
			} `json:"pagination"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			resp.Body.Close()
			return nil, errors.Wrap(err, "decode posts page")
		}
		resp.Body.Close()
		all = append(all, out.Data...)
		if len(out.Data) == 0 || page >= out.Pagination.TotalPages {
			break
		}
	}
	return all, nil
}

// NotVerified reports whether err is the backend refusing post creation for
// an account that has not passed verification.
func NotVerified(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.Status != http.StatusForbidden {
		return false
	}
	m := strings.ToLower(apiErr.Message)
	return strings.Contains(m, "not verified") || strings.Contains(m, "не верифицирован")
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any, wantStatus int) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return errors.Wrap(err, "encode request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpc.Do(req)
	if err != nil {
		return errors.Wrapf(err, "POST %s", path)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decode %s response", path)
	}
	return nil
}

// decodeError turns a non-2xx response into an APIError: the JSON error
// envelope when the body carries one, otherwise the first 200 bytes of it.
func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var env struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	msg := ""
	if json.Unmarshal(body, &env) == nil {
		msg = env.Error.Message
	}
	if msg == "" {
		if len(body) > 200 {
			body = body[:200]
		}
		msg = string(body)
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}

// createFilePart adds a file part with an explicit content type; the stdlib
// CreateFormFile helper pins application/octet-stream.
func createFilePart(mw *multipart.Writer, field, filename, contentType string) (io.Writer, error) {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	h.Set("Content-Type", contentType)
	return mw.CreatePart(h)
}
