// Package netx holds HTTP transfer helpers used by the CLI.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/recipebox/internal/filex"
)

// DownloadToFile fetches url with c and stores the body at path. Redirects,
// such as those to presigned object storage URLs, are followed by c. The
// file is written next to path first and renamed once complete, so a failed
// transfer leaves no partial file behind.
func DownloadToFile(ctx context.Context, c *http.Client, url, path string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return 0, fmt.Errorf("download failed: %s; body: %s", resp.Status, string(b))
	}

	dir, err := filex.EnsureDir(filepath.Dir(path))
	if err != nil {
		return 0, err
	}
	tmp, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return 0, err
	}
	defer func() { _, _ = filex.RemoveIfExists(tmp.Name()) }()

	n, err := io.Copy(tmp, resp.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, fmt.Errorf("write %s: %w", path, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, err
	}
	return n, nil
}
