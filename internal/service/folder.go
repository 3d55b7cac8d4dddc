package service

import (
	"NetVault/internal/dto"
	"NetVault/internal/repo"
	"NetVault/model"
	"NetVault/utils"
	"context"
	"errors"
	"regexp"
	"time"

	"gorm.io/gorm"
)

// maxTreeDepth bounds every ancestor walk. Cycle prevention is enforced at
// write time only, so a read-time walk over out-of-band mutated data must
// still terminate.
const maxTreeDepth = 128

const folderListCacheTTL = 2 * time.Minute

var folderNameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 ._()-]*$`)

func validateFolderName(name string) error {
	if name == "" || len(name) > 100 {
		return ErrInvalidFormat
	}
	if !folderNameRe.MatchString(name) {
		return ErrInvalidFormat
	}
	return nil
}

// cacheParentID normalizes a parent ID for cache keys.
func cacheParentID(parentID *uint64) uint64 {
	if parentID == nil {
		return 0
	}
	return *parentID
}

func invalidateFolderListCache(ownerID uint64, parentID *uint64) {
	_ = utils.InvalidateFolderListCache(context.Background(), ownerID, cacheParentID(parentID))
}

// getOwnedFolder loads a folder checking ownership.
func getOwnedFolder(folderID, ownerID uint64) (*model.Folder, error) {
	var folder model.Folder
	if err := repo.Db.Where("id = ? AND owner_id = ?", folderID, ownerID).First(&folder).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &folder, nil
}

// siblingNameTaken checks whether a live sibling already uses name. excludeID
// skips the folder being renamed. The check is advisory; the composite unique
// index uk_owner_parent_name is what holds under concurrent writers.
func siblingNameTaken(ownerID uint64, parentID *uint64, name string, excludeID uint64) (bool, error) {
	var count int64
	query := repo.Db.Model(&model.Folder{}).
		Where("owner_id = ? AND name = ?", ownerID, name)
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}
	if excludeID != 0 {
		query = query.Where("id != ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ancestorChain walks from folderID up to its root and returns the folders
// bottom-up. The walk is bounded by maxTreeDepth and a visited set.
func ancestorChain(folderID uint64) ([]model.Folder, error) {
	chain := make([]model.Folder, 0, 8)
	seen := make(map[uint64]struct{})
	currentID := folderID
	for depth := 0; depth < maxTreeDepth; depth++ {
		if _, ok := seen[currentID]; ok {
			return nil, ErrInvalidOperation
		}
		seen[currentID] = struct{}{}
		var folder model.Folder
		if err := repo.Db.Where("id = ?", currentID).First(&folder).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		chain = append(chain, folder)
		if folder.ParentID == nil {
			return chain, nil
		}
		currentID = *folder.ParentID
	}
	return nil, ErrInvalidOperation
}

// isAncestorOf reports whether folderID appears in the ancestor chain of
// startID (startID included).
func isAncestorOf(folderID, startID uint64) (bool, error) {
	chain, err := ancestorChain(startID)
	if err != nil {
		return false, err
	}
	for _, folder := range chain {
		if folder.ID == folderID {
			return true, nil
		}
	}
	return false, nil
}

// ListFolders returns the immediate children of parentID (nil for roots),
// each annotated with subfolder and file counts, ordered by name. The cache
// holds only the folder rows; counts change whenever anything under a child
// moves, so they are recomputed on every read.
func ListFolders(ownerID uint64, parentID *uint64) ([]dto.FolderNode, error) {
	folders, ok := utils.GetFolderListFromCache(context.Background(), ownerID, cacheParentID(parentID))
	if !ok {
		query := repo.Db.Where("owner_id = ?", ownerID)
		if parentID == nil {
			query = query.Where("parent_id IS NULL")
		} else {
			query = query.Where("parent_id = ?", *parentID)
		}
		if err := query.Order("name ASC").Find(&folders).Error; err != nil {
			return nil, err
		}
		_ = utils.SetFolderListToCache(context.Background(), ownerID, cacheParentID(parentID), folders, folderListCacheTTL)
	}

	nodes := make([]dto.FolderNode, 0, len(folders))
	for _, folder := range folders {
		var subfolders, files int64
		if err := repo.Db.Model(&model.Folder{}).Where("parent_id = ?", folder.ID).Count(&subfolders).Error; err != nil {
			return nil, err
		}
		if err := repo.Db.Model(&model.File{}).Where("folder_id = ?", folder.ID).Count(&files).Error; err != nil {
			return nil, err
		}
		nodes = append(nodes, dto.FolderNode{
			Folder:         folder,
			SubfolderCount: subfolders,
			FileCount:      files,
		})
	}
	return nodes, nil
}

// CreateFolder creates a folder under parentID (nil for a root folder).
func CreateFolder(ownerID uint64, name, description string, parentID *uint64) (*model.Folder, error) {
	if err := validateFolderName(name); err != nil {
		return nil, err
	}
	if parentID != nil {
		if _, err := getOwnedFolder(*parentID, ownerID); err != nil {
			return nil, err
		}
	}
	taken, err := siblingNameTaken(ownerID, parentID, name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrConflict
	}

	folder := &model.Folder{
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
		ParentID:    parentID,
	}
	if err := repo.Db.Create(folder).Error; err != nil {
		if repo.IsDuplicateKey(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	invalidateFolderListCache(ownerID, parentID)
	return folder, nil
}

// UpdateFolder renames and/or moves a folder. Moving re-checks sibling
// uniqueness under the new parent and refuses any move that would make the
// folder its own ancestor.
func UpdateFolder(folderID, ownerID uint64, newName string, newParentID *uint64) (*model.Folder, error) {
	if err := validateFolderName(newName); err != nil {
		return nil, err
	}
	folder, err := getOwnedFolder(folderID, ownerID)
	if err != nil {
		return nil, err
	}

	if newParentID != nil {
		if *newParentID == folderID {
			return nil, ErrInvalidOperation
		}
		if _, err := getOwnedFolder(*newParentID, ownerID); err != nil {
			// A missing or foreign target parent is an invalid move, not a
			// lookup miss.
			if errors.Is(err, ErrNotFound) {
				return nil, ErrInvalidOperation
			}
			return nil, err
		}
		cycle, err := isAncestorOf(folderID, *newParentID)
		if err != nil {
			return nil, err
		}
		if cycle {
			return nil, ErrInvalidOperation
		}
	}

	taken, err := siblingNameTaken(ownerID, newParentID, newName, folderID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrConflict
	}

	oldParentID := folder.ParentID
	if err := repo.Db.Model(folder).Updates(map[string]interface{}{
		"name":      newName,
		"parent_id": newParentID,
	}).Error; err != nil {
		if repo.IsDuplicateKey(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	folder.Name = newName
	folder.ParentID = newParentID

	invalidateFolderListCache(ownerID, oldParentID)
	invalidateFolderListCache(ownerID, newParentID)
	return folder, nil
}

// DeleteFolder removes an empty folder. A folder holding any subfolder or
// file is rejected with ErrNotEmpty; contents are never cascaded.
func DeleteFolder(folderID, ownerID uint64) error {
	folder, err := getOwnedFolder(folderID, ownerID)
	if err != nil {
		return err
	}

	var subfolders int64
	if err := repo.Db.Model(&model.Folder{}).Where("parent_id = ?", folderID).Count(&subfolders).Error; err != nil {
		return err
	}
	var files int64
	if err := repo.Db.Model(&model.File{}).Where("folder_id = ?", folderID).Count(&files).Error; err != nil {
		return err
	}
	if subfolders > 0 || files > 0 {
		return ErrNotEmpty
	}

	if err := repo.Db.Delete(&model.Folder{}, folderID).Error; err != nil {
		return err
	}
	invalidateFolderListCache(ownerID, folder.ParentID)
	_ = utils.InvalidateFolderListCache(context.Background(), ownerID, folderID)
	return nil
}

// ResolveFolderPath returns the chain from the root down to folderID,
// inclusive. Used for breadcrumb rendering by callers.
func ResolveFolderPath(folderID, ownerID uint64) ([]model.Folder, error) {
	if _, err := getOwnedFolder(folderID, ownerID); err != nil {
		return nil, err
	}
	chain, err := ancestorChain(folderID)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}
