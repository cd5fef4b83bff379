package download

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hszk-dev/gothumb/internal/domain/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestDownloader() *HTTPDownloader {
	return NewHTTPDownloader(Config{
		TimeoutDelta:    time.Millisecond,
		FallbackTimeout: 2 * time.Second,
	}, testLogger())
}

func TestHTTPDownloader_Download(t *testing.T) {
	image := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(image)
	}))
	defer srv.Close()

	d := newTestDownloader()

	got, err := d.Download(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}

	if !bytes.Equal(got, image) {
		t.Errorf("Download = %v, want %v", got, image)
	}
}

func TestHTTPDownloader_NonOKStatusIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not here", http.StatusNotFound)
	}))
	defer srv.Close()

	d := newTestDownloader()

	_, err := d.Download(context.Background(), srv.URL)
	if !errors.Is(err, repository.ErrDownloadFailed) {
		t.Errorf("expected ErrDownloadFailed, got %v", err)
	}
	if errors.Is(err, repository.ErrDownloadTimeout) {
		t.Error("a non-2xx response must not be classified as a timeout")
	}
}

func TestHTTPDownloader_ConnectionErrorIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	d := newTestDownloader()

	_, err := d.Download(context.Background(), srv.URL)
	if !errors.Is(err, repository.ErrDownloadFailed) {
		t.Errorf("expected ErrDownloadFailed, got %v", err)
	}
}

func TestHTTPDownloader_TimeoutWithinDeadline(t *testing.T) {
	blocked := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer srv.Close()
	defer close(blocked)

	d := newTestDownloader()

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := d.Download(ctx, srv.URL)
	elapsed := time.Since(start)

	if !errors.Is(err, repository.ErrDownloadTimeout) {
		t.Fatalf("expected ErrDownloadTimeout, got %v", err)
	}

	// The download must give up around the request deadline rather than
	// waiting for the server.
	if elapsed > time.Second {
		t.Errorf("download blocked for %s past its budget", elapsed)
	}
}

func TestHTTPDownloader_FallbackTimeoutWithoutDeadline(t *testing.T) {
	blocked := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer srv.Close()
	defer close(blocked)

	d := NewHTTPDownloader(Config{
		TimeoutDelta:    time.Millisecond,
		FallbackTimeout: 100 * time.Millisecond,
	}, testLogger())

	_, err := d.Download(context.Background(), srv.URL)
	if !errors.Is(err, repository.ErrDownloadTimeout) {
		t.Errorf("expected ErrDownloadTimeout, got %v", err)
	}
}

func TestHTTPDownloader_Budget(t *testing.T) {
	d := NewHTTPDownloader(Config{
		TimeoutDelta:    10 * time.Second,
		FallbackTimeout: 20 * time.Second,
	}, testLogger())

	t.Run("no deadline uses fallback", func(t *testing.T) {
		if got := d.budget(context.Background()); got != 20*time.Second {
			t.Errorf("budget = %s, want fallback 20s", got)
		}
	})

	t.Run("deadline minus delta", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		got := d.budget(ctx)
		if got <= 15*time.Second || got > 20*time.Second {
			t.Errorf("budget = %s, want roughly deadline minus delta (~20s)", got)
		}
	})

	t.Run("deadline inside delta clamps to floor", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		if got := d.budget(ctx); got != minBudget {
			t.Errorf("budget = %s, want floor %s", got, minBudget)
		}
	})
}
