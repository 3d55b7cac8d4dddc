package service

import (
	"NetVault/internal/dto"
	"NetVault/internal/repo"
	"NetVault/model"
	"NetVault/utils"
	"errors"
	"regexp"
	"strconv"
	"time"

	"golang.org/x/net/context"
	"gorm.io/gorm"
)

const shareCacheTTL = 5 * time.Minute

// Duration grammar for share issuance: an integer followed by exactly one
// unit. No floats, no compound expressions like "1d12h".
var shareDurationRe = regexp.MustCompile(`^(\d+)([mhd])$`)

// ParseShareDuration parses "<n>m", "<n>h" or "<n>d".
func ParseShareDuration(raw string) (time.Duration, error) {
	m := shareDurationRe.FindStringSubmatch(raw)
	if m == nil {
		return 0, ErrInvalidFormat
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || n <= 0 {
		return 0, ErrInvalidFormat
	}
	switch m[2] {
	case "m":
		return time.Duration(n) * time.Minute, nil
	case "h":
		return time.Duration(n) * time.Hour, nil
	default:
		return time.Duration(n) * 24 * time.Hour, nil
	}
}

// IssueShare creates a time-boxed public share for a folder the caller owns.
func IssueShare(folderID, ownerID uint64, duration string) (*model.SharedFolder, error) {
	d, err := ParseShareDuration(duration)
	if err != nil {
		return nil, err
	}
	if _, err := getOwnedFolder(folderID, ownerID); err != nil {
		return nil, err
	}

	share := &model.SharedFolder{
		Token:     utils.ShareToken(),
		FolderID:  folderID,
		OwnerID:   ownerID,
		ExpiresAt: time.Now().Add(d),
	}
	if err := repo.Db.Create(share).Error; err != nil {
		if repo.IsDuplicateKey(err) {
			return nil, ErrConflict
		}
		return nil, err
	}

	_ = utils.SetShareToCache(context.Background(), share, shareCacheTTL)
	return share, nil
}

// loadShare resolves a token into its share row, cache first. The expiry
// predicate is evaluated by the caller; rows persist past their deadline.
func loadShare(token string) (*model.SharedFolder, error) {
	ctx := context.Background()
	if cached, ok := utils.GetShareFromCache(ctx, token); ok {
		return cached, nil
	}

	var share model.SharedFolder
	if err := repo.Db.Where("token = ?", token).First(&share).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	_ = utils.SetShareToCache(ctx, &share, shareCacheTTL)
	return &share, nil
}

// resolveLiveShare runs the full token checks: shape, existence, expiry.
func resolveLiveShare(token string) (*model.SharedFolder, error) {
	if !utils.IsShareToken(token) {
		return nil, ErrInvalidFormat
	}
	share, err := loadShare(token)
	if err != nil {
		return nil, err
	}
	if time.Now().After(share.ExpiresAt) {
		return nil, ErrExpired
	}
	return share, nil
}

// folderLevel loads one level of a folder: its immediate subfolders and files.
func folderLevel(folderID uint64) ([]model.Folder, []model.File, error) {
	var folders []model.Folder
	if err := repo.Db.Where("parent_id = ?", folderID).Order("name ASC").Find(&folders).Error; err != nil {
		return nil, nil, err
	}
	var files []model.File
	if err := repo.Db.Where("folder_id = ?", folderID).Order("original_name ASC").Find(&files).Error; err != nil {
		return nil, nil, err
	}
	return folders, files, nil
}

// ResolveShare opens the shared root one level deep. No caller identity is
// involved: possession of a valid, unexpired token is the whole authorization.
func ResolveShare(token string) (*dto.SharedFolderView, error) {
	share, err := resolveLiveShare(token)
	if err != nil {
		return nil, err
	}

	var root model.Folder
	if err := repo.Db.Where("id = ?", share.FolderID).First(&root).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	folders, files, err := folderLevel(root.ID)
	if err != nil {
		return nil, err
	}
	return &dto.SharedFolderView{
		Token:     share.Token,
		Folder:    root,
		Folders:   folders,
		Files:     files,
		ExpiresAt: share.ExpiresAt.Format(time.RFC3339),
	}, nil
}

// ResolveSharedSubfolder opens a folder inside a shared subtree. Containment
// is proven by walking up from folderID until the shared root is reached;
// running off the top, exceeding the depth budget or looping through a
// corrupted parent chain all deny access.
func ResolveSharedSubfolder(token string, folderID uint64) (*dto.SharedSubfolderView, error) {
	share, err := resolveLiveShare(token)
	if err != nil {
		return nil, err
	}

	crumbs := make([]model.Folder, 0, 8)
	seen := make(map[uint64]struct{})
	currentID := folderID
	authorized := false
	for depth := 0; depth < maxTreeDepth; depth++ {
		if currentID == share.FolderID {
			authorized = true
			break
		}
		if _, ok := seen[currentID]; ok {
			break
		}
		seen[currentID] = struct{}{}

		var folder model.Folder
		if err := repo.Db.Where("id = ?", currentID).First(&folder).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				if currentID == folderID {
					return nil, ErrNotFound
				}
				return nil, ErrForbidden
			}
			return nil, err
		}
		crumbs = append(crumbs, folder)
		if folder.ParentID == nil {
			break
		}
		currentID = *folder.ParentID
	}
	if !authorized {
		return nil, ErrForbidden
	}

	// crumbs were collected bottom-up; the breadcrumb reads root-down.
	for i, j := 0, len(crumbs)-1; i < j; i, j = i+1, j-1 {
		crumbs[i], crumbs[j] = crumbs[j], crumbs[i]
	}

	var target model.Folder
	if len(crumbs) > 0 {
		target = crumbs[len(crumbs)-1]
	} else {
		// folderID equals the shared root.
		if err := repo.Db.Where("id = ?", folderID).First(&target).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
	}

	folders, files, err := folderLevel(target.ID)
	if err != nil {
		return nil, err
	}
	return &dto.SharedSubfolderView{
		SharedFolderView: dto.SharedFolderView{
			Token:     share.Token,
			Folder:    target,
			Folders:   folders,
			Files:     files,
			ExpiresAt: share.ExpiresAt.Format(time.RFC3339),
		},
		Breadcrumb: crumbs,
	}, nil
}
