package service

import (
	"NetVault/utils"
	"fmt"
	"time"
)

// BuildStoragePath builds the object key for an upload. The key embeds the
// owner, the folder (or a literal root segment) and a nanosecond timestamp,
// so two uploads with the same display name never collide and the key alone
// identifies the owning user and folder without a database lookup.
func BuildStoragePath(ownerID uint64, folderID *uint64, displayName string) string {
	name := utils.SanitizeObjectName(displayName)
	ts := time.Now().UnixNano()
	if folderID != nil {
		return fmt.Sprintf("users/%d/folder/%d/%d_%s", ownerID, *folderID, ts, name)
	}
	return fmt.Sprintf("users/%d/root/%d_%s", ownerID, ts, name)
}
