package service

import (
	"strings"
	"testing"
)

func TestBuildStoragePathRoot(t *testing.T) {
	path := BuildStoragePath(42, nil, "report.pdf")
	if !strings.HasPrefix(path, "users/42/root/") {
		t.Fatalf("path %q missing root prefix", path)
	}
	if !strings.HasSuffix(path, "_report.pdf") {
		t.Fatalf("path %q missing name suffix", path)
	}
}

func TestBuildStoragePathFolder(t *testing.T) {
	folderID := uint64(7)
	path := BuildStoragePath(42, &folderID, "report.pdf")
	if !strings.HasPrefix(path, "users/42/folder/7/") {
		t.Fatalf("path %q missing folder prefix", path)
	}
}

func TestBuildStoragePathSanitizesName(t *testing.T) {
	path := BuildStoragePath(1, nil, "my file (1).txt")
	if strings.ContainsAny(path, " ()") {
		t.Fatalf("path %q contains unsafe characters", path)
	}
	if !strings.HasSuffix(path, "_my_file__1_.txt") {
		t.Fatalf("path %q not sanitized as expected", path)
	}
}

func TestBuildStoragePathRepeatedInputsDiffer(t *testing.T) {
	folderID := uint64(3)
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		path := BuildStoragePath(9, &folderID, "same.txt")
		if _, ok := seen[path]; ok {
			t.Fatalf("path %q repeated", path)
		}
		seen[path] = struct{}{}
	}
}

func TestBuildStoragePathEmptyName(t *testing.T) {
	path := BuildStoragePath(1, nil, "")
	if !strings.HasSuffix(path, "_unnamed") {
		t.Fatalf("path %q missing placeholder name", path)
	}
}
