package storage

import (
	"fmt"
	"sync"

	"github.com/shashiranjanraj/till/config"
	"github.com/shashiranjanraj/till/pkg/logger"
)

var (
	managerMu sync.RWMutex
	disks     = map[string]Disk{}
)

// Connect boots the configured disks. "local" is rooted at DATA_DIR and is
// always available; "s3" is added only when S3_BUCKET is set.
func Connect() {
	RegisterDisk("local", NewLocal(config.DataDir(), config.Get("STORAGE_URL", "")))

	if config.Get("S3_BUCKET", "") == "" {
		return
	}
	d, err := NewS3(S3Options{
		Bucket:   config.Get("S3_BUCKET", ""),
		Region:   config.Get("S3_REGION", "us-east-1"),
		Key:      config.Get("S3_KEY", ""),
		Secret:   config.Get("S3_SECRET", ""),
		Endpoint: config.Get("S3_ENDPOINT", ""),
		BaseURL:  config.Get("S3_URL", ""),
	})
	if err != nil {
		logger.Warn("storage: s3 disk disabled", "error", err)
		return
	}
	RegisterDisk("s3", d)
}

// Use returns the named disk or an error when it was never registered.
func Use(name string) (Disk, error) {
	managerMu.RLock()
	d, ok := disks[name]
	managerMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: disk %q is not configured", name)
	}
	return d, nil
}

// RegisterDisk plugs a Disk implementation in under name.
func RegisterDisk(name string, d Disk) {
	managerMu.Lock()
	disks[name] = d
	managerMu.Unlock()
}
