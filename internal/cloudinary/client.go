package cloudinary

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

const apiBase = "https://api.cloudinary.com/v1_1"

// Client talks to the Cloudinary upload REST API with signed requests.
type Client struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string

	HTTPClient *http.Client
	baseURL    string
}

func New(cloudName, apiKey, apiSecret, folder string) *Client {
	return &Client{
		CloudName:  cloudName,
		APIKey:     apiKey,
		APISecret:  apiSecret,
		Folder:     folder,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    apiBase,
	}
}

// Configured reports whether credentials are present. Handlers reject upload
// requests when they are not, rather than failing mid-request.
func (c *Client) Configured() bool {
	return c != nil && c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

// UploadResult is the subset of the Cloudinary response the storefront uses.
type UploadResult struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Format    string `json:"format"`
}

// Upload sends one image to the configured folder and returns its hosted URL.
func (c *Client) Upload(ctx context.Context, filename string, file io.Reader) (*UploadResult, error) {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	params := map[string]string{
		"folder":    c.Folder,
		"timestamp": timestamp,
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, err
	}
	for key, value := range params {
		if err := mw.WriteField(key, value); err != nil {
			return nil, err
		}
	}
	if err := mw.WriteField("api_key", c.APIKey); err != nil {
		return nil, err
	}
	if err := mw.WriteField("signature", SignParams(params, c.APISecret)); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/%s/image/upload", c.baseURL, c.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("cloudinary upload: status %d: %s", resp.StatusCode, raw)
	}

	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("cloudinary upload: decode response: %w", err)
	}
	return &result, nil
}

// Destroy removes a hosted image by public id. Missing images are not an
// error: Cloudinary answers "not found" with HTTP 200.
func (c *Client) Destroy(ctx context.Context, publicID string) error {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	params := map[string]string{
		"public_id": publicID,
		"timestamp": timestamp,
	}

	form := url.Values{}
	for key, value := range params {
		form.Set(key, value)
	}
	form.Set("api_key", c.APIKey)
	form.Set("signature", SignParams(params, c.APISecret))

	endpoint := fmt.Sprintf("%s/%s/image/destroy", c.baseURL, c.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("cloudinary destroy: status %d: %s", resp.StatusCode, raw)
	}
	return nil
}

// SignParams builds the request signature: parameters sorted by key, joined
// key=value with &, the API secret appended, then SHA-1 hex encoded.
func SignParams(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+params[key])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}

var versionSegment = regexp.MustCompile(`^v\d+$`)

// PublicIDFromURL extracts the public id from a Cloudinary delivery URL, e.g.
// https://res.cloudinary.com/demo/image/upload/v123/classic-carrry/cap.jpg
// yields "classic-carrry/cap". Returns "" for non-Cloudinary URLs.
func PublicIDFromURL(rawURL string) string {
	if rawURL == "" || !strings.Contains(rawURL, "cloudinary.com") {
		return ""
	}

	parts := strings.Split(rawURL, "/")
	uploadIdx := -1
	for i, part := range parts {
		if part == "upload" {
			uploadIdx = i
			break
		}
	}
	if uploadIdx < 0 || uploadIdx == len(parts)-1 {
		return ""
	}

	rest := parts[uploadIdx+1:]
	if versionSegment.MatchString(rest[0]) {
		rest = rest[1:]
	}
	if len(rest) == 0 {
		return ""
	}

	publicID := strings.Join(rest, "/")
	if dot := strings.LastIndexByte(publicID, '.'); dot > strings.LastIndexByte(publicID, '/') {
		publicID = publicID[:dot]
	}
	return publicID
}
