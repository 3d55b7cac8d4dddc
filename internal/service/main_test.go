package service

import (
	"NetVault/config"
	"NetVault/internal/repo"
	"NetVault/internal/storage"
	"NetVault/model"
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"testing"
	"time"
)

// TestMain sets up the test environment.
func TestMain(m *testing.M) {
	config.InitConfig()
	repo.InitMysqlTest()
	repo.InitRedis()

	cleanupAllTables()

	code := m.Run()
	os.Exit(code)
}

// cleanupAllTables wipes table data without touching the schema.
func cleanupAllTables() {
	repo.Db.Exec("SET FOREIGN_KEY_CHECKS = 0")

	tables := []string{
		"import_task",
		"shared_folder",
		"file",
		"folder",
		"user_db",
	}
	for _, table := range tables {
		repo.Db.Exec("DELETE FROM " + table)
	}

	repo.Db.Exec("SET FOREIGN_KEY_CHECKS = 1")

	log.Println("[testmain] all tables cleaned")
}

var userSeq int

// mustCreateUser inserts a throwaway user and returns its id.
func mustCreateUser(t *testing.T) uint64 {
	t.Helper()
	userSeq++
	user := &model.User{
		UserName: fmt.Sprintf("tester_%d_%d", time.Now().UnixNano(), userSeq),
		Password: "secret",
		Email:    fmt.Sprintf("tester_%d_%d@example.com", time.Now().UnixNano(), userSeq),
		IsActive: true,
	}
	if err := CreateUser(user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user.ID
}

// mustCreateFolder inserts a folder through the service layer.
func mustCreateFolder(t *testing.T, ownerID uint64, name string, parentID *uint64) *model.Folder {
	t.Helper()
	folder, err := CreateFolder(ownerID, name, "", parentID)
	if err != nil {
		t.Fatalf("create folder %q: %v", name, err)
	}
	return folder
}

// fakeStore is an in-memory Store for exercising the service layer without
// an object storage backend. failPut and failRemove simulate backend outages.
type fakeStore struct {
	mu         sync.Mutex
	objects    map[string][]byte
	failPut    bool
	failRemove bool
	removed    []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (s *fakeStore) key(bucket, object string) string {
	return bucket + "/" + object
}

func (s *fakeStore) PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts storage.PutOptions) error {
	if s.failPut {
		return fmt.Errorf("backend down")
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[s.key(bucket, object)] = data
	return nil
}

func (s *fakeStore) GetObject(ctx context.Context, bucket, object string) (io.ReadCloser, storage.ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[s.key(bucket, object)]
	if !ok {
		return nil, storage.ObjectInfo{}, fmt.Errorf("object %s not found", object)
	}
	info := storage.ObjectInfo{ObjectName: object, Size: int64(len(data))}
	return io.NopCloser(bytes.NewReader(data)), info, nil
}

func (s *fakeStore) RemoveObject(ctx context.Context, bucket, object string) error {
	if s.failRemove {
		return fmt.Errorf("backend down")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, s.key(bucket, object))
	s.removed = append(s.removed, object)
	return nil
}

func (s *fakeStore) PresignedGetObject(ctx context.Context, bucket, object string, expiry time.Duration) (string, error) {
	return "http://fake/" + s.key(bucket, object), nil
}

func (s *fakeStore) PresignedGetObjectWithResponse(ctx context.Context, bucket, object string, expiry time.Duration, params map[string]string) (string, error) {
	return "http://fake/" + s.key(bucket, object), nil
}

func (s *fakeStore) PublicURL(bucket, object string) string {
	return "http://fake/" + s.key(bucket, object)
}

func (s *fakeStore) has(bucket, object string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[s.key(bucket, object)]
	return ok
}
