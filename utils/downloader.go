package utils

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"path"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
)

// MaxImageBytes caps uploaded and mirrored images.
const MaxImageBytes = 5 << 20

var (
	// ErrImageTooLarge is returned when an image exceeds MaxImageBytes.
	ErrImageTooLarge = errors.New("image exceeds size limit")
	// ErrNotImage is returned when a body does not sniff as an image.
	ErrNotImage = errors.New("content is not an image")
	// ErrBlockedAddress is returned when a mirrored URL points at a host that
	// is not publicly routable.
	ErrBlockedAddress = errors.New("address is not publicly routable")
)

// carrier-grade NAT, not covered by netip's IsPrivate
var sharedAddressSpace = netip.MustParsePrefix("100.64.0.0/10")

// NewImageClient returns the client used to mirror seller supplied URLs. It
// refuses to connect to loopback, private, link-local and other non-public
// addresses, including after redirects, and never goes through a proxy.
func NewImageClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{Timeout: 10 * time.Second, Control: dialPublicOnly}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext:         dialer.DialContext,
			TLSHandshakeTimeout: 10 * time.Second,
			MaxIdleConns:        10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// dialPublicOnly runs after DNS resolution, so it sees the address actually dialed.
func dialPublicOnly(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	ip, err := netip.ParseAddr(host)
	if err != nil || !IsPublicAddr(ip) {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, host)
	}
	return nil
}

// IsPublicAddr reports whether ip is a globally routable unicast address.
func IsPublicAddr(ip netip.Addr) bool {
	ip = ip.Unmap()
	return ip.IsGlobalUnicast() &&
		!ip.IsPrivate() &&
		!sharedAddressSpace.Contains(ip)
}

// ObjectUploader is the subset of S3Uploader the image helpers need.
type ObjectUploader interface {
	Upload(ctx context.Context, file io.Reader, objectKey, contentType string) (string, error)
	PresignURL(ctx context.Context, objectKey string) (string, error)
}

// ImageKey builds a unique object key under folder keeping the file extension.
func ImageKey(folder, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if len(ext) > 5 || ext == "." {
		ext = ""
	}
	return fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), ext)
}

// MirrorImage downloads the image at rawURL and stores it under folder. A nil
// client means NewImageClient.
func MirrorImage(ctx context.Context, client *http.Client, uploader ObjectUploader, rawURL, folder string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "PhoneSwap/1.0")

	if client == nil {
		client = NewImageClient(30 * time.Second)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("bad status: %s", resp.Status)
	}

	// read one byte past the limit to detect oversized bodies
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxImageBytes+1))
	if err != nil {
		return "", err
	}
	if len(body) > MaxImageBytes {
		return "", ErrImageTooLarge
	}

	// the remote Content-Type header is not trusted
	contentType := http.DetectContentType(body)
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: %s", ErrNotImage, contentType)
	}

	return uploader.Upload(ctx, bytes.NewReader(body), ImageKey(folder, path.Base(u.Path)), contentType)
}
