package catalog

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/campusfm/songday/internal/storage"
)

const (
	downloadTimeout        = 30 * time.Second
	maxConcurrentDownloads = 5

	// Some catalog CDNs reject requests without a browser-looking origin.
	downloadReferer   = "http://music.126.net/"
	downloadUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.36"
)

var filenameIllegal = strings.NewReplacer(
	"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
	`"`, "_", "<", "_", ">", "_", "|", "_",
)

// SafeFilename maps a song title to a cache-safe base name: illegal path
// characters become underscores, control characters are dropped and the
// result is clamped to 100 runes.
func SafeFilename(name string) string {
	cleaned := filenameIllegal.Replace(name)
	var b strings.Builder
	for _, r := range cleaned {
		if r >= 32 {
			b.WriteRune(r)
		}
	}
	cleaned = b.String()
	runes := []rune(cleaned)
	if len(runes) > 100 {
		cleaned = string(runes[:100])
	}
	return strings.TrimSpace(cleaned)
}

// CacheName returns the cache filename for a song title.
func CacheName(title string) string {
	return SafeFilename(title) + ".mp3"
}

// Downloader fetches accepted songs into the audio cache in the background.
// Failures only log a warning; the accepted request is never rolled back.
type Downloader struct {
	client *Client
	cache  storage.Storage
	http   *http.Client
	slots  chan struct{}
}

func NewDownloader(client *Client, cache storage.Storage) *Downloader {
	return &Downloader{
		client: client,
		cache:  cache,
		http:   &http.Client{Timeout: downloadTimeout},
		slots:  make(chan struct{}, maxConcurrentDownloads),
	}
}

// Fetch downloads the track for songID into the cache asynchronously,
// bounded by a fixed concurrency limit. Already-cached titles are skipped.
func (d *Downloader) Fetch(songID, title string) {
	name := CacheName(title)
	if d.cache.Exists(name) {
		return
	}
	go func() {
		d.slots <- struct{}{}
		defer func() { <-d.slots }()
		if err := d.fetch(songID, name); err != nil {
			log.Warn().Err(err).Str("song", title).Msg("[catalog] audio download failed")
		}
	}()
}

func (d *Downloader) fetch(songID, name string) error {
	ctx, cancel := context.WithTimeout(context.Background(), downloadTimeout)
	defer cancel()

	src, err := d.client.Resolve(ctx, songID)
	if err != nil {
		return err
	}
	if src.URL == "" {
		return fmt.Errorf("catalog: no download url for song %s", songID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Referer", downloadReferer)
	req.Header.Set("User-Agent", downloadUserAgent)

	resp, err := d.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog: audio download returned status %d", resp.StatusCode)
	}

	if _, err := d.cache.Save(name, resp.Body); err != nil {
		return err
	}
	log.Info().Str("file", name).Msg("[catalog] audio cached")
	return nil
}
