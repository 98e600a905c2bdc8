package upload

import (
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Config holds Cloudinary credentials
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// Uploader pushes images to Cloudinary and returns the hosted URL.
// Only the URL is persisted; the binary never touches our stores.
type Uploader struct {
	cfg    Config
	client *http.Client
}

// NewUploader creates a new uploader
func NewUploader(cfg Config) *Uploader {
	return &Uploader{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Enabled reports whether credentials are configured
func (u *Uploader) Enabled() bool {
	return u.cfg.CloudName != "" && u.cfg.APIKey != "" && u.cfg.APISecret != ""
}

type uploadResult struct {
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// UploadFile uploads a multipart form file under the given public ID
func (u *Uploader) UploadFile(file *multipart.FileHeader, publicID string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return "", err
	}

	return u.uploadBase64(base64.StdEncoding.EncodeToString(data), publicID)
}

func (u *Uploader) uploadBase64(payload, publicID string) (string, error) {
	if !u.Enabled() {
		return "", fmt.Errorf("cloudinary credentials not configured")
	}

	if u.cfg.Folder != "" {
		publicID = u.cfg.Folder + "/" + publicID
	}

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)

	form := url.Values{}
	form.Add("file", "data:image/jpeg;base64,"+payload)
	form.Add("api_key", u.cfg.APIKey)
	form.Add("public_id", publicID)
	form.Add("timestamp", timestamp)
	form.Add("signature", u.sign(publicID, timestamp))

	endpoint := "https://api.cloudinary.com/v1_1/" + u.cfg.CloudName + "/image/upload"
	resp, err := u.client.Post(endpoint, "application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var result uploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload failed: %s", result.Error.Message)
	}
	if result.SecureURL != "" {
		return result.SecureURL, nil
	}
	return result.URL, nil
}

// sign builds the Cloudinary request signature: SHA-1 over the sorted
// signable params concatenated with the API secret.
func (u *Uploader) sign(publicID, timestamp string) string {
	toSign := "public_id=" + publicID + "&timestamp=" + timestamp + u.cfg.APISecret
	sum := sha1.Sum([]byte(toSign))
	return hex.EncodeToString(sum[:])
}
