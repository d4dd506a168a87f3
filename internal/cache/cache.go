package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/Stromjold/Sistem-Cesfam/internal/model"
)

// Cache defines the interface for caching parsed datasets between
// comparisons within one process.
type Cache interface {
	Get(key string) (*model.Dataset, bool)
	Set(key string, ds *model.Dataset)
	Clear()
}

// Key derives a cache key from the identity of a source file: path, sheet,
// size and modification time. Any change to the file invalidates the entry.
func Key(path, sheet string, size, modTimeUnix int64) string {
	raw := fmt.Sprintf("%s|%s|%d|%d", path, sheet, size, modTimeUnix)
	hash := sha256.Sum256([]byte(raw))
	return "cesfam:v1:" + hex.EncodeToString(hash[:])
}
