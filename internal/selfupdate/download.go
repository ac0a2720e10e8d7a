package selfupdate

import (
	"context"
	"fmt"
	"io"
	"os"
)

// chunkSize is the read size used while streaming an archive to disk.
const chunkSize = 8 << 10

// ProgressFunc receives the cumulative number of bytes written and the total
// size, or -1 when the server did not send a Content-Length.
type ProgressFunc func(done, total int64)

// Download streams archiveURL into a new temporary file inside dir and returns
// its path. The caller removes the file.
func (c *Client) Download(ctx context.Context, archiveURL, dir string, progress ProgressFunc) (_ string, err error) {
	resp, err := c.Fetch(ctx, archiveURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	tmp, err := os.CreateTemp(dir, "offdroid-download-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if closeErr := tmp.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := copyChunks(tmp, resp.Body, resp.ContentLength, progress); err != nil {
		return "", fmt.Errorf("writing %s: %w", tmp.Name(), err)
	}
	return tmp.Name(), nil
}

// copyChunks copies src to dst in chunkSize reads, reporting progress after each write.
func copyChunks(dst io.Writer, src io.Reader, total int64, progress ProgressFunc) (int64, error) {
	if total <= 0 {
		total = -1
	}

	buf := make([]byte, chunkSize)
	var done int64
	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			if _, err := dst.Write(buf[:n]); err != nil {
				return done, err
			}
			done += int64(n)
			if progress != nil {
				progress(done, total)
			}
		}
		if readErr == io.EOF {
			return done, nil
		}
		if readErr != nil {
			return done, readErr
		}
	}
}
