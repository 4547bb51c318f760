// internal/storage/factory.go
package storage

import (
	"fmt"
	"log/slog"

	"github.com/soaring-tools/tskmap/internal/config"
	"github.com/soaring-tools/tskmap/internal/database"
	gormstorage "github.com/soaring-tools/tskmap/internal/storage/gorm"
	"github.com/soaring-tools/tskmap/internal/storage/memory"
)

// NewBackend creates an archive backend based on configuration. Type
// "none" (or empty) returns a nil Backend: archiving is disabled.
func NewBackend(cfg config.StorageConfig, logger *slog.Logger) (Backend, error) {
	switch cfg.Type {
	case "", "none":
		return nil, nil
	case "memory":
		return memory.New(cfg.Memory, logger), nil
	case "sqlite", "postgres":
		m := database.NewManager(logger)
		if err := m.Connect(cfg); err != nil {
			return nil, err
		}
		return gormstorage.New(m), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
