package service

import (
	"NetVault/config"
	"NetVault/internal/storage"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
)

// HTTPStatusError is returned for non-200 HTTP responses.
type HTTPStatusError struct {
	StatusCode int
	Status     string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("bad status: %s", e.Status)
}

func hostAllowed(host string, allowlist []string) bool {
	if len(allowlist) == 0 {
		return true
	}
	host = strings.ToLower(strings.TrimSpace(host))
	for _, entry := range allowlist {
		entry = strings.ToLower(strings.TrimSpace(entry))
		if entry == "" {
			continue
		}
		if strings.HasPrefix(entry, ".") {
			if strings.HasSuffix(host, entry) {
				return true
			}
			continue
		}
		if host == entry {
			return true
		}
	}
	return false
}

func isLocalHostname(host string) bool {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "localhost" || host == "localhost.localdomain" {
		return true
	}
	return strings.HasSuffix(host, ".local")
}

func isBlockedIP(ip net.IP) bool {
	if ip == nil {
		return true
	}
	if ip.IsLoopback() || ip.IsMulticast() || ip.IsLinkLocalMulticast() || ip.IsLinkLocalUnicast() || ip.IsUnspecified() {
		return true
	}
	return ip.IsPrivate()
}

func validateImportURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("invalid url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme")
	}
	host := u.Hostname()
	if host == "" {
		return nil, fmt.Errorf("missing host")
	}
	if !hostAllowed(host, config.AppConfig.ImportAllowedHosts) {
		return nil, fmt.Errorf("host not allowed")
	}
	if config.AppConfig.ImportAllowPrivate {
		return u, nil
	}
	if isLocalHostname(host) {
		return nil, fmt.Errorf("host not allowed")
	}
	if ip := net.ParseIP(host); ip != nil {
		if isBlockedIP(ip) {
			return nil, fmt.Errorf("ip not allowed")
		}
		return u, nil
	}
	ips, err := net.LookupIP(host)
	if err != nil || len(ips) == 0 {
		return nil, fmt.Errorf("host not resolvable")
	}
	for _, ip := range ips {
		if isBlockedIP(ip) {
			return nil, fmt.Errorf("ip not allowed")
		}
	}
	return u, nil
}

// ValidateImportSourceURL validates an import source URL before task creation.
func ValidateImportSourceURL(rawURL string) error {
	_, err := validateImportURL(rawURL)
	return err
}

// FetchToStorage streams a remote URL into the storage backend under
// objectPath and returns the written size and content type.
func FetchToStorage(ctx context.Context, store storage.Store, rawURL, objectPath string) (int64, string, error) {
	parsed, err := validateImportURL(rawURL)
	if err != nil {
		return 0, "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return 0, "", err
	}
	client := &http.Client{
		Timeout: config.AppConfig.ImportHTTPTimeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			_, err := validateImportURL(req.URL.String())
			return err
		},
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, "", &HTTPStatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	}

	maxBytes := config.AppConfig.ImportMaxBytes
	if maxBytes > 0 && resp.ContentLength > maxBytes {
		return 0, "", errContentTooLarge
	}

	// The cap is enforced on the bytes actually read, not the header:
	// chunked responses carry no length and the header is attacker-supplied.
	body := &cappedReader{r: resp.Body, remaining: maxBytes, capped: maxBytes > 0}

	contentType := resp.Header.Get("Content-Type")
	if err := store.PutObject(
		ctx,
		config.AppConfig.BucketName,
		objectPath,
		body,
		resp.ContentLength,
		storage.PutOptions{ContentType: contentType},
	); err != nil {
		if body.exceeded {
			return 0, "", errContentTooLarge
		}
		return 0, "", storageFailure("put", err)
	}
	if body.exceeded {
		return 0, "", errContentTooLarge
	}
	return body.read, contentType, nil
}

var errContentTooLarge = fmt.Errorf("content too large")

// cappedReader counts bytes and fails the stream once the cap is crossed.
type cappedReader struct {
	r         io.Reader
	remaining int64
	capped    bool
	read      int64
	exceeded  bool
}

func (c *cappedReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.read += int64(n)
	if c.capped {
		c.remaining -= int64(n)
		if c.remaining < 0 {
			c.exceeded = true
			return n, errContentTooLarge
		}
	}
	return n, err
}
