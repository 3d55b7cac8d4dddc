package model

import "time"

type SharedFolder struct {
	ID uint64 `gorm:"primaryKey" json:"id,omitempty"`

	// Token is the public lookup key. It is a prefixed UUID so it can never be
	// confused with (or enumerated like) a numeric row id.
	Token string `gorm:"column:token;size:64;uniqueIndex;not null" json:"token"`

	FolderID uint64 `gorm:"column:folder_id;not null;index" json:"folder_id"`
	Folder   Folder `gorm:"foreignKey:FolderID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	OwnerID uint64 `gorm:"column:owner_id;not null;index" json:"owner_id,omitempty"`
	Owner   User   `gorm:"foreignKey:OwnerID;references:ID" json:"-"`

	CreatedAt time.Time `json:"created_at"`

	// ExpiresAt is an absolute deadline. The row persists past it; expiry is a
	// computed predicate, not a deletion trigger.
	ExpiresAt time.Time `gorm:"column:expires_at;not null" json:"expires_at"`
}

// TableName returns the database table name.
func (SharedFolder) TableName() string {
	return "shared_folder"
}
