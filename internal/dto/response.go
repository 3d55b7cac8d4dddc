package dto

import "NetVault/model"

// FolderNode is a folder annotated with its immediate content counts.
type FolderNode struct {
	model.Folder
	SubfolderCount int64 `json:"subfolder_count"`
	FileCount      int64 `json:"file_count"`
}

// SharedFolderView is one level of a shared subtree as seen through a token.
type SharedFolderView struct {
	Token     string         `json:"token"`
	Folder    model.Folder   `json:"folder"`
	Folders   []model.Folder `json:"folders"`
	Files     []model.File   `json:"files"`
	ExpiresAt string         `json:"expires_at"`
}

// SharedSubfolderView adds the breadcrumb from the shared root down to the
// requested subfolder (root excluded, subfolder included).
type SharedSubfolderView struct {
	SharedFolderView
	Breadcrumb []model.Folder `json:"breadcrumb"`
}
