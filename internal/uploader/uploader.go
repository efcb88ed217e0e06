// Package uploader pushes images to the third-party image host using its
// unsigned upload preset and returns the hosted URLs.
package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Uploader posts multipart uploads to a fixed endpoint.
type Uploader struct {
	uploadURL  string
	preset     string
	httpClient *http.Client
}

// New builds an uploader for the given endpoint and unsigned preset.
func New(uploadURL, preset string) (*Uploader, error) {
	if strings.TrimSpace(uploadURL) == "" {
		return nil, fmt.Errorf("upload URL is required")
	}
	if strings.TrimSpace(preset) == "" {
		return nil, fmt.Errorf("upload preset is required")
	}
	return &Uploader{
		uploadURL:  uploadURL,
		preset:     preset,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// Upload sends one image and returns its hosted URL.
func (u *Uploader) Upload(ctx context.Context, filename string, content io.Reader) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if err := writer.WriteField("upload_preset", u.preset); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.uploadURL, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("image host returned %s", resp.Status)
	}
	var uploaded struct {
		SecureURL string `json:"secure_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if uploaded.SecureURL == "" {
		return "", fmt.Errorf("upload response carried no URL")
	}
	return uploaded.SecureURL, nil
}

// UploadFiles sends the named files concurrently and returns their hosted
// URLs in input order. Any failure aborts the batch.
func (u *Uploader) UploadFiles(ctx context.Context, paths []string) ([]string, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no images to upload")
	}
	urls := make([]string, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			f, err := openFile(path)
			if err != nil {
				return err
			}
			defer f.Close()
			url, err := u.Upload(gctx, path, f)
			if err != nil {
				return fmt.Errorf("upload %s: %w", filepath.Base(path), err)
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}

func openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	return f, nil
}
