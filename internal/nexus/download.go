package nexus

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
)

// Downloader saves a remote resource locally.
type Downloader interface {
	Download(ctx context.Context, target string) (string, error)
}

// Download fetches target into the configured download directory and
// returns the written path. Concurrent downloads of the same target share
// one request.
func (c *Client) Download(ctx context.Context, target string) (string, error) {
	v, err, _ := c.downloads.Do(target, func() (any, error) {
		return c.download(ctx, target)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Client) download(ctx context.Context, target string) (string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", target, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{StatusCode: resp.StatusCode, Status: resp.Status, URL: target}
	}

	if err := os.MkdirAll(c.downloadDir, 0o755); err != nil {
		return "", fmt.Errorf("creating download dir: %w", err)
	}
	dest := filepath.Join(c.downloadDir, downloadName(resp, target))

	f, err := os.CreateTemp(c.downloadDir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmp := f.Name()
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("download %s: %w", target, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("download %s: %w", target, err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("download %s: %w", target, err)
	}
	return dest, nil
}

// downloadName picks a file name from Content-Disposition, falling back to
// the last URL path segment.
func downloadName(resp *http.Response, target string) string {
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if name := filepath.Base(params["filename"]); name != "." && name != "/" && name != "" {
				return name
			}
		}
	}
	if u, err := url.Parse(target); err == nil {
		if name := path.Base(u.Path); name != "." && name != "/" {
			return name
		}
	}
	return "download"
}
