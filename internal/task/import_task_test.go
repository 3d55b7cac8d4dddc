package task

import (
	"NetVault/config"
	"NetVault/internal/repo"
	"NetVault/internal/service"
	"NetVault/internal/storage"
	"NetVault/model"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"
)

// TestMain sets up the test environment. Imports fetch from loopback test
// servers, so private targets are allowed for the whole package.
func TestMain(m *testing.M) {
	_ = os.Setenv("IMPORT_ALLOW_PRIVATE", "true")
	config.InitConfig()
	repo.InitMysqlTest()
	repo.InitRedis()

	repo.Db.Exec("SET FOREIGN_KEY_CHECKS = 0")
	for _, table := range []string{"import_task", "file", "folder", "user_db"} {
		repo.Db.Exec("DELETE FROM " + table)
	}
	repo.Db.Exec("SET FOREIGN_KEY_CHECKS = 1")

	os.Exit(m.Run())
}

func mustCreateUser(t *testing.T) uint64 {
	t.Helper()
	user := &model.User{
		UserName: fmt.Sprintf("importer_%d", time.Now().UnixNano()),
		Password: "x",
		Email:    fmt.Sprintf("importer_%d@example.com", time.Now().UnixNano()),
		IsActive: true,
	}
	if err := service.CreateUser(user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user.ID
}

// memStore is a minimal in-memory Store for import processing.
type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string][]byte)}
}

func (s *memStore) PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts storage.PutOptions) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[bucket+"/"+object] = data
	return nil
}

func (s *memStore) GetObject(ctx context.Context, bucket, object string) (io.ReadCloser, storage.ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[bucket+"/"+object]
	if !ok {
		return nil, storage.ObjectInfo{}, fmt.Errorf("object %s not found", object)
	}
	return io.NopCloser(bytes.NewReader(data)), storage.ObjectInfo{ObjectName: object, Size: int64(len(data))}, nil
}

func (s *memStore) RemoveObject(ctx context.Context, bucket, object string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, bucket+"/"+object)
	return nil
}

func (s *memStore) PresignedGetObject(ctx context.Context, bucket, object string, expiry time.Duration) (string, error) {
	return "http://fake/" + object, nil
}

func (s *memStore) PresignedGetObjectWithResponse(ctx context.Context, bucket, object string, expiry time.Duration, params map[string]string) (string, error) {
	return "http://fake/" + object, nil
}

func (s *memStore) PublicURL(bucket, object string) string {
	return "http://fake/" + object
}

func seedTask(t *testing.T, userID uint64, source, fileName string) *model.ImportTask {
	t.Helper()
	row := &model.ImportTask{
		UserID:   userID,
		Source:   source,
		FileName: fileName,
		Status:   model.TaskStatusPending,
	}
	if err := repo.Db.Create(row).Error; err != nil {
		t.Fatalf("seed task: %v", err)
	}
	return row
}

func TestProcessImportTask(t *testing.T) {
	payload := []byte("imported payload")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	userID := mustCreateUser(t)
	row := seedTask(t, userID, server.URL+"/data.txt", "data.txt")
	store := newMemStore()

	if err := ProcessImportTask(context.Background(), store, row.ID); err != nil {
		t.Fatalf("process: %v", err)
	}

	var done model.ImportTask
	if err := repo.Db.Where("id = ?", row.ID).First(&done).Error; err != nil {
		t.Fatalf("reload task: %v", err)
	}
	if done.Status != model.TaskStatusCompleted {
		t.Fatalf("status = %q, want completed", done.Status)
	}
	if done.FileID == nil {
		t.Fatalf("file id not recorded")
	}

	var file model.File
	if err := repo.Db.Where("id = ?", *done.FileID).First(&file).Error; err != nil {
		t.Fatalf("load file: %v", err)
	}
	if file.OwnerID != userID || file.Size != int64(len(payload)) {
		t.Fatalf("unexpected file row: %+v", file)
	}

	object, _, err := store.GetObject(context.Background(), config.AppConfig.BucketName, file.ObjectKey())
	if err != nil {
		t.Fatalf("stored object missing: %v", err)
	}
	defer object.Close()
	data, _ := io.ReadAll(object)
	if !bytes.Equal(data, payload) {
		t.Fatalf("stored payload mismatch")
	}
}

func TestProcessImportTaskHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	userID := mustCreateUser(t)
	row := seedTask(t, userID, server.URL+"/missing.txt", "missing.txt")

	err := ProcessImportTask(context.Background(), newMemStore(), row.ID)
	var statusErr *service.HTTPStatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusNotFound {
		t.Fatalf("process: got %v, want HTTPStatusError 404", err)
	}
}

func TestProcessImportTaskAlreadyClaimed(t *testing.T) {
	userID := mustCreateUser(t)
	row := seedTask(t, userID, "http://127.0.0.1/never", "never.txt")
	if err := repo.Db.Model(row).Update("status", model.TaskStatusCompleted).Error; err != nil {
		t.Fatalf("mark completed: %v", err)
	}

	err := ProcessImportTask(context.Background(), newMemStore(), row.ID)
	if !IsTaskGone(err) {
		t.Fatalf("claimed task: got %v, want record-not-found", err)
	}
}

func TestMarkImportTaskFailed(t *testing.T) {
	userID := mustCreateUser(t)
	row := seedTask(t, userID, "http://127.0.0.1/x", "x.txt")

	MarkImportTaskFailed(row.ID, fmt.Errorf("backend exploded"))

	var failed model.ImportTask
	if err := repo.Db.Where("id = ?", row.ID).First(&failed).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if failed.Status != model.TaskStatusFailed || failed.ErrorMsg == "" || failed.FinishedAt == nil {
		t.Fatalf("failure not recorded: %+v", failed)
	}
}
