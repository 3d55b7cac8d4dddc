package service

import (
	"NetVault/config"
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestValidateImportSourceURLSchemes(t *testing.T) {
	bad := []string{
		"ftp://example.com/file",
		"file:///etc/passwd",
		"http://",
		"not a url",
	}
	for _, raw := range bad {
		if err := ValidateImportSourceURL(raw); err == nil {
			t.Errorf("ValidateImportSourceURL(%q) accepted", raw)
		}
	}
}

func TestValidateImportSourceURLBlocksPrivateTargets(t *testing.T) {
	prev := config.AppConfig.ImportAllowPrivate
	config.AppConfig.ImportAllowPrivate = false
	defer func() { config.AppConfig.ImportAllowPrivate = prev }()

	blocked := []string{
		"http://localhost/secret",
		"http://localhost.localdomain/secret",
		"http://printer.local/secret",
		"http://127.0.0.1/secret",
		"http://10.0.0.1/secret",
		"http://192.168.1.1/secret",
		"http://169.254.169.254/metadata",
		"http://[::1]/secret",
		"http://0.0.0.0/secret",
	}
	for _, raw := range blocked {
		if err := ValidateImportSourceURL(raw); err == nil {
			t.Errorf("ValidateImportSourceURL(%q) accepted private target", raw)
		}
	}

	// Public IP literals pass without a DNS lookup.
	if err := ValidateImportSourceURL("http://8.8.8.8/file"); err != nil {
		t.Errorf("public ip rejected: %v", err)
	}
}

func TestValidateImportSourceURLAllowPrivate(t *testing.T) {
	prev := config.AppConfig.ImportAllowPrivate
	config.AppConfig.ImportAllowPrivate = true
	defer func() { config.AppConfig.ImportAllowPrivate = prev }()

	for _, raw := range []string{"http://localhost:9000/file", "http://10.0.0.1/file"} {
		if err := ValidateImportSourceURL(raw); err != nil {
			t.Errorf("ValidateImportSourceURL(%q) with private allowed: %v", raw, err)
		}
	}
}

func TestFetchToStorageCapOnChunkedStream(t *testing.T) {
	prevPrivate := config.AppConfig.ImportAllowPrivate
	prevMax := config.AppConfig.ImportMaxBytes
	config.AppConfig.ImportAllowPrivate = true
	config.AppConfig.ImportMaxBytes = 16
	defer func() {
		config.AppConfig.ImportAllowPrivate = prevPrivate
		config.AppConfig.ImportMaxBytes = prevMax
	}()

	// Flushing before the payload forces chunked transfer: no Content-Length
	// header for the cap to lean on.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		_, _ = w.Write(bytes.Repeat([]byte("x"), 64))
	}))
	defer server.Close()

	store := newFakeStore()
	_, _, err := FetchToStorage(context.Background(), store, server.URL+"/big.bin", "users/1/root/1_big.bin")
	if err == nil {
		t.Fatalf("oversized chunked stream accepted")
	}
	if !strings.Contains(err.Error(), "content too large") {
		t.Fatalf("unexpected error: %v", err)
	}
	// The cap is a policy rejection, not a backend outage.
	if errors.Is(err, ErrStorageFailure) {
		t.Fatalf("cap violation reported as storage failure: %v", err)
	}
}

func TestFetchToStorageCapFromContentLength(t *testing.T) {
	prevPrivate := config.AppConfig.ImportAllowPrivate
	prevMax := config.AppConfig.ImportMaxBytes
	config.AppConfig.ImportAllowPrivate = true
	config.AppConfig.ImportMaxBytes = 16
	defer func() {
		config.AppConfig.ImportAllowPrivate = prevPrivate
		config.AppConfig.ImportMaxBytes = prevMax
	}()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(bytes.Repeat([]byte("x"), 64))
	}))
	defer server.Close()

	_, _, err := FetchToStorage(context.Background(), newFakeStore(), server.URL+"/big.bin", "users/1/root/2_big.bin")
	if err == nil || !strings.Contains(err.Error(), "content too large") {
		t.Fatalf("declared oversize accepted: %v", err)
	}
}

func TestFetchToStorageChunkedWithinCap(t *testing.T) {
	prevPrivate := config.AppConfig.ImportAllowPrivate
	prevMax := config.AppConfig.ImportMaxBytes
	config.AppConfig.ImportAllowPrivate = true
	config.AppConfig.ImportMaxBytes = 1024
	defer func() {
		config.AppConfig.ImportAllowPrivate = prevPrivate
		config.AppConfig.ImportMaxBytes = prevMax
	}()

	payload := bytes.Repeat([]byte("y"), 64)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	store := newFakeStore()
	size, _, err := FetchToStorage(context.Background(), store, server.URL+"/ok.bin", "users/1/root/3_ok.bin")
	if err != nil {
		t.Fatalf("chunked fetch within cap: %v", err)
	}
	if size != int64(len(payload)) {
		t.Fatalf("size = %d, want %d", size, len(payload))
	}
	if !store.has(config.AppConfig.BucketName, "users/1/root/3_ok.bin") {
		t.Fatalf("object missing from store")
	}
}

func TestValidateImportSourceURLHostAllowlist(t *testing.T) {
	prevHosts := config.AppConfig.ImportAllowedHosts
	prevPrivate := config.AppConfig.ImportAllowPrivate
	config.AppConfig.ImportAllowedHosts = []string{"cdn.example.com", ".mirrors.example.org"}
	config.AppConfig.ImportAllowPrivate = true
	defer func() {
		config.AppConfig.ImportAllowedHosts = prevHosts
		config.AppConfig.ImportAllowPrivate = prevPrivate
	}()

	allowed := []string{
		"http://cdn.example.com/file",
		"https://CDN.EXAMPLE.COM/file",
		"http://eu.mirrors.example.org/file",
	}
	for _, raw := range allowed {
		if err := ValidateImportSourceURL(raw); err != nil {
			t.Errorf("ValidateImportSourceURL(%q): %v", raw, err)
		}
	}

	denied := []string{
		"http://evil.com/file",
		"http://mirrors.example.org.evil.com/file",
	}
	for _, raw := range denied {
		if err := ValidateImportSourceURL(raw); err == nil {
			t.Errorf("ValidateImportSourceURL(%q) accepted off-list host", raw)
		}
	}
}
