package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/campusfm/songday/internal/storage"
)

func TestSafeFilename(t *testing.T) {
	assert.Equal(t, "a_b_c", SafeFilename("a/b:c"))
	assert.Equal(t, "quiet", SafeFilename("qu\x01iet"))
	assert.Equal(t, "晴天", SafeFilename(" 晴天 "))

	long := strings.Repeat("x", 150)
	assert.Len(t, []rune(SafeFilename(long)), 100)
}

func TestCacheName(t *testing.T) {
	assert.Equal(t, "My Song.mp3", CacheName("My Song"))
	assert.Equal(t, "a_b.mp3", CacheName(`a|b`))
}

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Search", r.URL.Path)
		assert.Equal(t, "晴天", r.URL.Query().Get("keyword"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"success":true,"data":[
			{"id":123,"name":"晴天","artists":"周杰伦","album":"叶惠美","cover_url":"http://img/1.jpg"}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	tracks, err := client.Search(context.Background(), "晴天")
	assert.NoError(t, err)
	assert.Len(t, tracks, 1)
	assert.Equal(t, "晴天", tracks[0].Name)
}

func TestSearch_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":""}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.Search(context.Background(), "nothing")
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestResolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Song_V1", r.URL.Path)
		assert.Equal(t, "123", r.URL.Query().Get("url"))
		assert.Equal(t, "standard", r.URL.Query().Get("level"))
		w.Write([]byte(`{"success":true,"data":{"url":"http://cdn/song.mp3","lyric":"[00:01] la la"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	src, err := client.Resolve(context.Background(), "123")
	assert.NoError(t, err)
	assert.Equal(t, "http://cdn/song.mp3", src.URL)
	assert.Contains(t, src.Lyric, "la la")
}

func TestResolve_ServiceMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"song not available"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.Resolve(context.Background(), "123")
	assert.ErrorContains(t, err, "song not available")
}

func TestDownloader_FetchCachesAudio(t *testing.T) {
	var audioServed bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/Song_V1":
			w.Write([]byte(`{"success":true,"data":{"url":"http://` + r.Host + `/audio.mp3"}}`))
		case "/audio.mp3":
			assert.NotEmpty(t, r.Header.Get("Referer"))
			audioServed = true
			w.Write([]byte("mp3-bytes"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	cache := storage.NewLocalStorage(t.TempDir(), "/media")
	dl := NewDownloader(NewClient(srv.URL, time.Second), cache)

	name := CacheName("My Song")
	assert.False(t, cache.Exists(name))

	dl.Fetch("123", "My Song")
	waitFor(t, func() bool { return cache.Exists(name) })
	assert.True(t, audioServed)

	// Already cached: no second fetch is scheduled.
	dl.Fetch("123", "My Song")
	assert.True(t, cache.Exists(name))
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}
