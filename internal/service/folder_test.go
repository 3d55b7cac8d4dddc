package service

import (
	"NetVault/internal/repo"
	"NetVault/model"
	"context"
	"errors"
	"testing"
)

func TestCreateFolderAndList(t *testing.T) {
	owner := mustCreateUser(t)
	root := mustCreateFolder(t, owner, "Documents", nil)
	if root.ParentID != nil {
		t.Fatalf("root folder has parent %v", root.ParentID)
	}
	child := mustCreateFolder(t, owner, "Taxes", &root.ID)

	nodes, err := ListFolders(owner, nil)
	if err != nil {
		t.Fatalf("list roots: %v", err)
	}
	if len(nodes) != 1 || nodes[0].ID != root.ID {
		t.Fatalf("unexpected root listing: %+v", nodes)
	}
	if nodes[0].SubfolderCount != 1 {
		t.Fatalf("root subfolder count = %d, want 1", nodes[0].SubfolderCount)
	}

	nodes, err = ListFolders(owner, &root.ID)
	if err != nil {
		t.Fatalf("list children: %v", err)
	}
	if len(nodes) != 1 || nodes[0].ID != child.ID {
		t.Fatalf("unexpected child listing: %+v", nodes)
	}
}

func TestListFoldersCountsStayFresh(t *testing.T) {
	owner := mustCreateUser(t)
	parent := mustCreateFolder(t, owner, "Counted", nil)
	store := newFakeStore()

	// Prime the root-listing cache with zero counts.
	nodes, err := ListFolders(owner, nil)
	if err != nil {
		t.Fatalf("list roots: %v", err)
	}
	if nodes[0].FileCount != 0 || nodes[0].SubfolderCount != 0 {
		t.Fatalf("fresh folder has counts: %+v", nodes[0])
	}

	// Mutations under the folder must show up in its parent's listing
	// immediately, cached or not.
	file, err := UploadFile(context.Background(), store, uploadRequest(owner, "in.txt", &parent.ID, "x"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	child := mustCreateFolder(t, owner, "Nested", &parent.ID)

	nodes, err = ListFolders(owner, nil)
	if err != nil {
		t.Fatalf("list roots: %v", err)
	}
	if nodes[0].FileCount != 1 {
		t.Fatalf("file count = %d, want 1", nodes[0].FileCount)
	}
	if nodes[0].SubfolderCount != 1 {
		t.Fatalf("subfolder count = %d, want 1", nodes[0].SubfolderCount)
	}

	if err := DeleteFile(context.Background(), store, file.ID, owner); err != nil {
		t.Fatalf("delete file: %v", err)
	}
	if err := DeleteFolder(child.ID, owner); err != nil {
		t.Fatalf("delete subfolder: %v", err)
	}

	nodes, err = ListFolders(owner, nil)
	if err != nil {
		t.Fatalf("list roots: %v", err)
	}
	if nodes[0].FileCount != 0 || nodes[0].SubfolderCount != 0 {
		t.Fatalf("counts not back to zero: %+v", nodes[0])
	}
}

func TestCreateFolderSiblingConflict(t *testing.T) {
	owner := mustCreateUser(t)
	mustCreateFolder(t, owner, "Photos", nil)

	if _, err := CreateFolder(owner, "Photos", "", nil); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate sibling: got %v, want ErrConflict", err)
	}

	// Same name under a different parent is fine.
	other := mustCreateFolder(t, owner, "Archive", nil)
	if _, err := CreateFolder(owner, "Photos", "", &other.ID); err != nil {
		t.Fatalf("same name under different parent: %v", err)
	}

	// And a different owner can reuse the name at the root.
	stranger := mustCreateUser(t)
	if _, err := CreateFolder(stranger, "Photos", "", nil); err != nil {
		t.Fatalf("same name for different owner: %v", err)
	}
}

func TestRootSiblingIndexEnforced(t *testing.T) {
	owner := mustCreateUser(t)
	mustCreateFolder(t, owner, "Unique", nil)

	// A writer that slips past the advisory pre-check must still hit the
	// index, root level included.
	err := repo.Db.Create(&model.Folder{Name: "Unique", OwnerID: owner}).Error
	if err == nil || !repo.IsDuplicateKey(err) {
		t.Fatalf("duplicate root insert: got %v, want duplicate-key error", err)
	}

	parent := mustCreateFolder(t, owner, "Parent", nil)
	mustCreateFolder(t, owner, "Inner", &parent.ID)
	err = repo.Db.Create(&model.Folder{Name: "Inner", OwnerID: owner, ParentID: &parent.ID}).Error
	if err == nil || !repo.IsDuplicateKey(err) {
		t.Fatalf("duplicate nested insert: got %v, want duplicate-key error", err)
	}
}

func TestCreateFolderNameValidation(t *testing.T) {
	owner := mustCreateUser(t)
	bad := []string{"", " leading", "../escape", "semi;colon", string(make([]byte, 101))}
	for _, name := range bad {
		if _, err := CreateFolder(owner, name, "", nil); !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("CreateFolder(%q): got %v, want ErrInvalidFormat", name, err)
		}
	}
}

func TestCreateFolderUnderForeignParent(t *testing.T) {
	owner := mustCreateUser(t)
	stranger := mustCreateUser(t)
	foreign := mustCreateFolder(t, stranger, "Private", nil)

	if _, err := CreateFolder(owner, "Sneaky", "", &foreign.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign parent: got %v, want ErrNotFound", err)
	}
}

func TestUpdateFolderRenameAndMove(t *testing.T) {
	owner := mustCreateUser(t)
	a := mustCreateFolder(t, owner, "A", nil)
	b := mustCreateFolder(t, owner, "B", nil)

	moved, err := UpdateFolder(b.ID, owner, "B2", &a.ID)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if moved.Name != "B2" || moved.ParentID == nil || *moved.ParentID != a.ID {
		t.Fatalf("unexpected folder after move: %+v", moved)
	}

	// Move back to the root via nil parent.
	back, err := UpdateFolder(b.ID, owner, "B2", nil)
	if err != nil {
		t.Fatalf("move to root: %v", err)
	}
	if back.ParentID != nil {
		t.Fatalf("folder still has parent after move to root")
	}
}

func TestUpdateFolderRejectsCycles(t *testing.T) {
	owner := mustCreateUser(t)
	a := mustCreateFolder(t, owner, "Top", nil)
	b := mustCreateFolder(t, owner, "Mid", &a.ID)
	c := mustCreateFolder(t, owner, "Leaf", &b.ID)

	// Self-parenting.
	if _, err := UpdateFolder(a.ID, owner, "Top", &a.ID); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("self parent: got %v, want ErrInvalidOperation", err)
	}
	// Moving under a descendant.
	if _, err := UpdateFolder(a.ID, owner, "Top", &c.ID); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("descendant parent: got %v, want ErrInvalidOperation", err)
	}
}

func TestUpdateFolderMissingTargetParent(t *testing.T) {
	owner := mustCreateUser(t)
	a := mustCreateFolder(t, owner, "Solo", nil)
	missing := uint64(999999999)

	if _, err := UpdateFolder(a.ID, owner, "Solo", &missing); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("missing target parent: got %v, want ErrInvalidOperation", err)
	}
}

func TestUpdateFolderSiblingConflict(t *testing.T) {
	owner := mustCreateUser(t)
	mustCreateFolder(t, owner, "Kept", nil)
	other := mustCreateFolder(t, owner, "Renamed", nil)

	if _, err := UpdateFolder(other.ID, owner, "Kept", nil); !errors.Is(err, ErrConflict) {
		t.Fatalf("rename onto sibling: got %v, want ErrConflict", err)
	}
	// Renaming to its own current name is not a conflict.
	if _, err := UpdateFolder(other.ID, owner, "Renamed", nil); err != nil {
		t.Fatalf("no-op rename: %v", err)
	}
}

func TestDeleteFolderGuards(t *testing.T) {
	owner := mustCreateUser(t)
	parent := mustCreateFolder(t, owner, "Parent", nil)
	child := mustCreateFolder(t, owner, "Child", &parent.ID)

	if err := DeleteFolder(parent.ID, owner); !errors.Is(err, ErrNotEmpty) {
		t.Fatalf("delete non-empty: got %v, want ErrNotEmpty", err)
	}
	if err := DeleteFolder(child.ID, owner); err != nil {
		t.Fatalf("delete leaf: %v", err)
	}
	if err := DeleteFolder(parent.ID, owner); err != nil {
		t.Fatalf("delete emptied parent: %v", err)
	}
	if err := DeleteFolder(parent.ID, owner); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete twice: got %v, want ErrNotFound", err)
	}
}

func TestDeleteFolderForeignOwner(t *testing.T) {
	owner := mustCreateUser(t)
	stranger := mustCreateUser(t)
	folder := mustCreateFolder(t, owner, "Mine", nil)

	if err := DeleteFolder(folder.ID, stranger); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign delete: got %v, want ErrNotFound", err)
	}
}

func TestResolveFolderPath(t *testing.T) {
	owner := mustCreateUser(t)
	a := mustCreateFolder(t, owner, "Root", nil)
	b := mustCreateFolder(t, owner, "Branch", &a.ID)
	c := mustCreateFolder(t, owner, "Tip", &b.ID)

	chain, err := ResolveFolderPath(c.ID, owner)
	if err != nil {
		t.Fatalf("resolve path: %v", err)
	}
	if len(chain) != 3 {
		t.Fatalf("chain length = %d, want 3", len(chain))
	}
	for i, want := range []uint64{a.ID, b.ID, c.ID} {
		if chain[i].ID != want {
			t.Fatalf("chain[%d] = %d, want %d", i, chain[i].ID, want)
		}
	}

	stranger := mustCreateUser(t)
	if _, err := ResolveFolderPath(c.ID, stranger); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign path resolve: got %v, want ErrNotFound", err)
	}
}

func TestResolveFolderPathTerminatesOnCorruptChain(t *testing.T) {
	owner := mustCreateUser(t)
	a := mustCreateFolder(t, owner, "CycleA", nil)
	b := mustCreateFolder(t, owner, "CycleB", &a.ID)

	// Corrupt the chain out of band; the bounded walk must still terminate.
	if err := repo.Db.Model(&model.Folder{}).Where("id = ?", a.ID).Update("parent_id", b.ID).Error; err != nil {
		t.Fatalf("corrupt chain: %v", err)
	}
	defer func() {
		repo.Db.Model(&model.Folder{}).Where("id = ?", a.ID).Update("parent_id", nil)
	}()

	if _, err := ResolveFolderPath(b.ID, owner); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("cyclic chain: got %v, want ErrInvalidOperation", err)
	}
}
