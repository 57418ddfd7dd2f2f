package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/netx"
)

const expiredAccessToken = "Access Token is expired"

// HTTPClient implements API over the REST endpoints.
type HTTPClient struct {
	baseURL  string
	http     *http.Client
	sessions *SessionStore
}

func NewHTTPClient(baseURL string, timeout time.Duration, sessions *SessionStore) *HTTPClient {
	return &HTTPClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		sessions: sessions,
	}
}

var _ API = (*HTTPClient)(nil)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type loginReply struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         User   `json:"user"`
}

// request is a replayable request description; the body is rebuilt for
// every attempt.
type request struct {
	method string
	path   string
	query  url.Values
	body   func() (io.Reader, string, error)
	auth   bool
}

func jsonBody(v any) func() (io.Reader, string, error) {
	return func() (io.Reader, string, error) {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

func (c *HTTPClient) Register(ctx context.Context, name, email string, password []byte) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	req := request{
		method: http.MethodPost,
		path:   "/api/users/register",
		body:   jsonBody(map[string]string{"name": name, "email": email, "password": string(password)}),
	}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *HTTPClient) Login(ctx context.Context, email string, password []byte) (*User, error) {
	var out loginReply
	req := request{
		method: http.MethodPost,
		path:   "/api/users/login",
		body:   jsonBody(map[string]string{"email": email, "password": string(password)}),
	}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}

	sess := &Session{Email: out.User.Email, AccessToken: out.AccessToken, RefreshToken: out.RefreshToken}
	if err := c.sessions.Save(sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &out.User, nil
}

func (c *HTTPClient) Logout() error {
	return c.sessions.Clear()
}

func (c *HTTPClient) Verify(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodGet, path: "/api/users/verify", auth: true}, nil)
}

func (c *HTTPClient) ListRecipes(ctx context.Context, page, limit int) (*RecipePage, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var out RecipePage
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/recipes", query: q, auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) GetRecipe(ctx context.Context, id string) (*Recipe, error) {
	var out struct {
		Recipe *Recipe `json:"recipe"`
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/recipes/" + url.PathEscape(id), auth: true}, &out); err != nil {
		return nil, err
	}
	return out.Recipe, nil
}

func (c *HTTPClient) SearchRecipes(ctx context.Context, name string, ingredients []string) ([]*Recipe, error) {
	q := url.Values{}
	if name != "" {
		q.Set("name", name)
	}
	if len(ingredients) > 0 {
		q.Set("ingredients", strings.Join(ingredients, ","))
	}

	var out struct {
		Recipes []*Recipe `json:"recipes"`
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/recipes/advanced/search", query: q, auth: true}, &out); err != nil {
		return nil, err
	}
	return out.Recipes, nil
}

func (c *HTTPClient) CreateRecipe(ctx context.Context, in RecipeInput) (*Recipe, error) {
	var out struct {
		Recipe *Recipe `json:"recipe"`
	}
	req := request{method: http.MethodPost, path: "/api/recipes", body: recipeBody(in), auth: true}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return out.Recipe, nil
}

func (c *HTTPClient) UpdateRecipe(ctx context.Context, id string, in RecipeInput) (*UpdateResult, error) {
	var out UpdateResult
	req := request{method: http.MethodPut, path: "/api/recipes/" + url.PathEscape(id), body: recipeBody(in), auth: true}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteRecipe(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/api/recipes/" + url.PathEscape(id), auth: true}, nil)
}

// DownloadImage saves the image stored under key to path.
func (c *HTTPClient) DownloadImage(ctx context.Context, key, path string) (int64, error) {
	n, err := netx.DownloadToFile(ctx, c.http, c.baseURL+"/uploads/"+strings.TrimLeft(key, "/"), path)
	if err != nil {
		return 0, fmt.Errorf("image %s: %w", key, err)
	}
	return n, nil
}

// recipeBody sends JSON unless an image is attached, in which case the
// fields travel as multipart form values alongside the file.
func recipeBody(in RecipeInput) func() (io.Reader, string, error) {
	if in.ImagePath == "" {
		payload := map[string]any{}
		if in.Name != nil {
			payload["name"] = *in.Name
		}
		if in.Description != nil {
			payload["description"] = *in.Description
		}
		if in.Ingredients != nil {
			payload["ingredients"] = in.Ingredients
		}
		if in.Instructions != nil {
			payload["instructions"] = *in.Instructions
		}
		return jsonBody(payload)
	}

	return func() (io.Reader, string, error) {
		buf := &bytes.Buffer{}
		mw := multipart.NewWriter(buf)

		fields := []struct {
			key   string
			value *string
		}{
			{"name", in.Name},
			{"description", in.Description},
			{"instructions", in.Instructions},
		}
		for _, f := range fields {
			if f.value == nil {
				continue
			}
			if err := mw.WriteField(f.key, *f.value); err != nil {
				return nil, "", err
			}
		}
		for _, ing := range in.Ingredients {
			if err := mw.WriteField("ingredients", ing); err != nil {
				return nil, "", err
			}
		}

		f, err := os.Open(in.ImagePath)
		if err != nil {
			return nil, "", fmt.Errorf("open image: %w", err)
		}
		defer f.Close()

		part, err := mw.CreateFormFile("image", filepath.Base(in.ImagePath))
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, f); err != nil {
			return nil, "", fmt.Errorf("read image: %w", err)
		}
		if err := mw.Close(); err != nil {
			return nil, "", err
		}
		return buf, mw.FormDataContentType(), nil
	}
}

// do sends req and decodes a 2xx answer into out. An authenticated request
// rejected for an expired access token is retried once after a refresh.
func (c *HTTPClient) do(ctx context.Context, req request, out any) error {
	var sess *Session
	if req.auth {
		var err error
		if sess, err = c.sessions.Load(); err != nil {
			return err
		}
		if sess.AccessToken == "" {
			return ErrNotLoggedIn
		}
	}

	err := c.send(ctx, req, sess, out)

	var apiErr *APIError
	if !req.auth || !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized ||
		apiErr.Message != expiredAccessToken || sess.RefreshToken == "" {
		return err
	}

	if err := c.refresh(ctx, sess); err != nil {
		return err
	}
	return c.send(ctx, req, sess, out)
}

func (c *HTTPClient) refresh(ctx context.Context, sess *Session) error {
	var out loginReply
	req := request{
		method: http.MethodPost,
		path:   "/api/users/refresh",
		body:   jsonBody(map[string]string{"refreshToken": sess.RefreshToken}),
	}
	if err := c.send(ctx, req, nil, &out); err != nil {
		return fmt.Errorf("refresh session: %w", err)
	}

	sess.AccessToken = out.AccessToken
	sess.RefreshToken = out.RefreshToken
	return c.sessions.Save(sess)
}

func (c *HTTPClient) send(ctx context.Context, req request, sess *Session, out any) error {
	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	if req.body != nil {
		var err error
		if body, contentType, err = req.body(); err != nil {
			return err
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	if sess != nil {
		httpReq.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+sess.AccessToken)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Title: http.StatusText(resp.StatusCode)}

	var body errorBody
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body); err == nil && body.Error != "" {
		apiErr.Title = body.Error
		apiErr.Message = body.Message
	}
	return apiErr
}
