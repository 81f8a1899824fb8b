package utils

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingUploader struct {
	key         string
	contentType string
	body        []byte
}

func (u *recordingUploader) Upload(_ context.Context, file io.Reader, objectKey, contentType string) (string, error) {
	body, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	u.key, u.contentType, u.body = objectKey, contentType, body
	return objectKey, nil
}

func (u *recordingUploader) PresignURL(_ context.Context, objectKey string) (string, error) {
	return "https://signed/" + objectKey, nil
}

func TestImageKey(t *testing.T) {
	key := ImageKey("products/u1", "Photo.JPG")
	assert.True(t, strings.HasPrefix(key, "products/u1/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.NotEqual(t, key, ImageKey("products/u1", "Photo.JPG"))

	assert.NotContains(t, ImageKey("p", "weird.extension"), ".extension")
}

func TestMirrorImage(t *testing.T) {
	gif := []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.gif":
			_, _ = w.Write(gif)
		case "/fake.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte("<svg onload=alert(1)></svg>"))
		case "/page":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html></html>"))
		case "/huge":
			w.Header().Set("Content-Type", "image/jpeg")
			_, _ = w.Write(bytes.Repeat([]byte{0xff}, MaxImageBytes+10))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	ctx := context.Background()

	t.Run("sniffs type and uploads", func(t *testing.T) {
		up := &recordingUploader{}
		key, err := MirrorImage(ctx, srv.Client(), up, srv.URL+"/ok.gif?v=2", "products/u1")
		require.NoError(t, err)
		assert.Equal(t, up.key, key)
		assert.True(t, strings.HasSuffix(key, ".gif"))
		assert.Equal(t, "image/gif", up.contentType)
		assert.Equal(t, gif, up.body)
	})

	t.Run("rejects non images", func(t *testing.T) {
		_, err := MirrorImage(ctx, srv.Client(), &recordingUploader{}, srv.URL+"/page", "p")
		assert.Error(t, err)
	})

	t.Run("sniffs even when a type header is sent", func(t *testing.T) {
		up := &recordingUploader{}
		_, err := MirrorImage(ctx, srv.Client(), up, srv.URL+"/fake.png", "p")
		assert.ErrorIs(t, err, ErrNotImage)
		assert.Nil(t, up.body)
	})

	t.Run("rejects other schemes", func(t *testing.T) {
		_, err := MirrorImage(ctx, srv.Client(), &recordingUploader{}, "file:///etc/passwd", "p")
		assert.ErrorContains(t, err, "unsupported scheme")
	})

	t.Run("default client refuses loopback", func(t *testing.T) {
		_, err := MirrorImage(ctx, nil, &recordingUploader{}, srv.URL+"/ok.gif", "p")
		assert.ErrorIs(t, err, ErrBlockedAddress)

		_, err = MirrorImage(ctx, NewImageClient(5*time.Second), &recordingUploader{}, srv.URL+"/ok.gif", "p")
		assert.ErrorIs(t, err, ErrBlockedAddress)
	})

	t.Run("rejects oversized bodies", func(t *testing.T) {
		_, err := MirrorImage(ctx, srv.Client(), &recordingUploader{}, srv.URL+"/huge", "p")
		assert.ErrorIs(t, err, ErrImageTooLarge)
	})

	t.Run("bad status", func(t *testing.T) {
		_, err := MirrorImage(ctx, srv.Client(), &recordingUploader{}, srv.URL+"/missing.png", "p")
		assert.ErrorContains(t, err, "bad status")
	})
}

func TestIsPublicAddr(t *testing.T) {
	tests := []struct {
		addr   string
		public bool
	}{
		{"8.8.8.8", true},
		{"2606:4700:4700::1111", true},
		{"127.0.0.1", false},
		{"::1", false},
		{"10.1.2.3", false},
		{"172.16.0.1", false},
		{"192.168.1.10", false},
		{"169.254.169.254", false},
		{"100.64.0.1", false},
		{"0.0.0.0", false},
		{"fe80::1", false},
		{"fd00::1", false},
		{"::ffff:127.0.0.1", false},
		{"224.0.0.1", false},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			assert.Equal(t, tt.public, IsPublicAddr(netip.MustParseAddr(tt.addr)))
		})
	}
}

func TestNewLogger(t *testing.T) {
	_, err := NewLogger("debug", "console")
	assert.NoError(t, err)
	_, err = NewLogger("loud", "json")
	assert.Error(t, err)
	_, err = NewLogger("info", "xml")
	assert.Error(t, err)
}
