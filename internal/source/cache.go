package source

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const (
	cacheEnvVar   = "HOVERLATE_CACHE_DIR"
	cacheSubdir   = "hoverlate/downloads"
	cacheTTL      = 24 * time.Hour
	bodySuffix    = ".body"
	partialSuffix = ".part"
	metaSuffix    = ".meta"
)

// downloadCache keeps fetched documents on disk and revalidates them with
// conditional requests once they are older than cacheTTL.
type downloadCache struct {
	dir    string
	client *http.Client
}

type cacheMeta struct {
	URL          string    `json:"url"`
	ContentType  string    `json:"contentType"`
	ETag         string    `json:"etag"`
	LastModified string    `json:"lastModified"`
	CachedAt     time.Time `json:"cachedAt"`
	Size         int64     `json:"size"`
}

type cachedBody struct {
	Path        string
	ContentType string
}

func cacheDir(override string) (string, error) {
	dir := override
	if dir == "" {
		dir = os.Getenv(cacheEnvVar)
	}
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			base = filepath.Join(os.TempDir(), "hoverlate-cache")
		}
		dir = filepath.Join(base, cacheSubdir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func newDownloadCache(dir string, client *http.Client) (*downloadCache, error) {
	dir, err := cacheDir(dir)
	if err != nil {
		return nil, err
	}
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &downloadCache{dir: dir, client: client}, nil
}

func (c *downloadCache) Fetch(ctx context.Context, rawURL string) (cachedBody, error) {
	key := cacheKey(rawURL)
	bodyPath, metaPath, partialPath := c.pathsFor(key)

	meta, _ := readMeta(metaPath)
	info, _ := os.Stat(bodyPath)
	if info != nil && info.Size() > 0 && time.Since(info.ModTime()) < cacheTTL {
		return cachedBody{Path: bodyPath, ContentType: meta.ContentType}, nil
	}

	body, err := c.download(ctx, rawURL, bodyPath, metaPath, partialPath, meta, info)
	if err == nil {
		return body, nil
	}
	if info != nil && info.Size() > 0 {
		return cachedBody{Path: bodyPath, ContentType: meta.ContentType}, nil
	}
	return cachedBody{}, err
}

func (c *downloadCache) download(ctx context.Context, rawURL, bodyPath, metaPath, partialPath string, meta cacheMeta, current os.FileInfo) (cachedBody, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return cachedBody{}, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptHeader)
	if current != nil && current.Size() > 0 {
		if meta.ETag != "" {
			req.Header.Set("If-None-Match", meta.ETag)
		}
		if meta.LastModified != "" {
			req.Header.Set("If-Modified-Since", meta.LastModified)
		}
	}

	var partialSize int64
	if info, err := os.Stat(partialPath); err == nil && info.Size() > 0 {
		partialSize = info.Size()
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", partialSize))
		if meta.ETag != "" {
			req.Header.Set("If-Range", meta.ETag)
		} else if meta.LastModified != "" {
			req.Header.Set("If-Range", meta.LastModified)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return cachedBody{}, fmt.Errorf("fetch url: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotModified:
		if current != nil && current.Size() > 0 {
			meta.CachedAt = time.Now().UTC()
			_ = writeMeta(metaPath, meta)
			now := time.Now()
			_ = os.Chtimes(bodyPath, now, now)
			return cachedBody{Path: bodyPath, ContentType: meta.ContentType}, nil
		}
		return c.download(ctx, rawURL, bodyPath, metaPath, partialPath, cacheMeta{}, nil)
	case http.StatusOK:
		return c.saveBody(resp, bodyPath, metaPath, partialPath, false)
	case http.StatusPartialContent:
		return c.saveBody(resp, bodyPath, metaPath, partialPath, partialSize > 0)
	default:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return cachedBody{}, fmt.Errorf("fetch status %s (%s)", resp.Status, string(snippet))
	}
}

func (c *downloadCache) saveBody(resp *http.Response, bodyPath, metaPath, partialPath string, appendExisting bool) (cachedBody, error) {
	flags := os.O_CREATE | os.O_WRONLY
	if appendExisting {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	file, err := os.OpenFile(partialPath, flags, 0o644)
	if err != nil {
		return cachedBody{}, err
	}
	if _, err := io.Copy(file, io.LimitReader(resp.Body, maxBodyBytes)); err != nil {
		file.Close()
		return cachedBody{}, err
	}
	if err := file.Close(); err != nil {
		return cachedBody{}, err
	}
	if err := os.Rename(partialPath, bodyPath); err != nil {
		return cachedBody{}, err
	}

	meta := cacheMeta{
		URL:          resp.Request.URL.String(),
		ContentType:  resp.Header.Get("Content-Type"),
		ETag:         resp.Header.Get("Etag"),
		LastModified: resp.Header.Get("Last-Modified"),
		CachedAt:     time.Now().UTC(),
	}
	if info, err := os.Stat(bodyPath); err == nil {
		meta.Size = info.Size()
	}
	if err := writeMeta(metaPath, meta); err != nil {
		return cachedBody{}, err
	}
	return cachedBody{Path: bodyPath, ContentType: meta.ContentType}, nil
}

func (c *downloadCache) pathsFor(key string) (string, string, string) {
	return filepath.Join(c.dir, key+bodySuffix), filepath.Join(c.dir, key+metaSuffix), filepath.Join(c.dir, key+partialSuffix)
}

func cacheKey(rawURL string) string {
	sum := sha1.Sum([]byte(rawURL))
	return hex.EncodeToString(sum[:])
}

func readMeta(path string) (cacheMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cacheMeta{}, err
	}
	var meta cacheMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return cacheMeta{}, err
	}
	return meta, nil
}

func writeMeta(path string, meta cacheMeta) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
