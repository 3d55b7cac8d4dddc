package model

import "time"

type File struct {
	ID uint64 `gorm:"primaryKey" json:"id,omitempty"`

	// FileName is the storage-derived name, OriginalName is what the user uploaded.
	FileName     string `gorm:"column:file_name;size:255;not null" json:"file_name"`
	OriginalName string `gorm:"column:original_name;size:255;not null" json:"original_name"`

	MimeType string `gorm:"column:mime_type;size:128;not null;default:''" json:"mime_type"`
	Size     int64  `gorm:"column:size;not null" json:"size"`

	// StoragePath is the object key in the storage backend. LegacyPath only
	// carries pre-migration records; new rows always leave it empty.
	StoragePath string `gorm:"column:storage_path;size:512;not null" json:"-"`
	LegacyPath  string `gorm:"column:legacy_path;size:512;not null;default:''" json:"-"`

	Description string `gorm:"column:description;size:500;not null;default:''" json:"description,omitempty"`

	IsPublic bool `gorm:"column:is_public;not null;default:false" json:"is_public"`

	OwnerID uint64 `gorm:"column:owner_id;not null;index" json:"owner_id,omitempty"`
	Owner   User   `gorm:"foreignKey:OwnerID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	FolderID *uint64 `gorm:"column:folder_id;index" json:"folder_id,omitempty"`
	Folder   *Folder `gorm:"foreignKey:FolderID;references:ID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (File) TableName() string {
	return "file"
}

// ObjectKey returns the key used against the storage backend. Pre-migration
// rows may only carry LegacyPath.
func (f *File) ObjectKey() string {
	if f.StoragePath != "" {
		return f.StoragePath
	}
	return f.LegacyPath
}
