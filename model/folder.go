package model

import "time"

type Folder struct {
	ID uint64 `gorm:"primaryKey" json:"id,omitempty"`

	// Sibling uniqueness lives in the uk_owner_parent_name index on
	// (owner_id, parent_key, name), where parent_key is a stored generated
	// COALESCE(parent_id, 0). MySQL unique indexes skip NULL rows, so the
	// nullable parent_id alone would leave root siblings unconstrained.
	// See repo.ensureFolderSiblingIndex.
	Name string `gorm:"column:name;size:100;not null" json:"name"`

	Description string `gorm:"column:description;size:500;not null;default:''" json:"description,omitempty"`

	OwnerID uint64 `gorm:"column:owner_id;not null;index" json:"owner_id,omitempty"`
	Owner   User   `gorm:"foreignKey:OwnerID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	ParentID *uint64 `gorm:"column:parent_id;index" json:"parent_id,omitempty"`
	Parent   *Folder `gorm:"foreignKey:ParentID;references:ID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (Folder) TableName() string {
	return "folder"
}

/*
关于目录树的表示
文件夹以扁平表存储 通过 parent_id 指向父节点 parent_id 为 NULL 即根目录
祖先/后代判断全部通过按 id 查表向上遍历实现 不在内存中维护指针图
*/
