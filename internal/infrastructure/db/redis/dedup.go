package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const scanTTL = time.Hour

// ScanDedup provides idempotency checks for meal scans backed by Redis.
// Key format: scan:<member_unique_id>:<package_name>:<unix_timestamp>
type ScanDedup struct {
	client *redis.Client
}

// NewScanDedup creates a ScanDedup wrapping the given Redis client.
func NewScanDedup(client *redis.Client) *ScanDedup {
	return &ScanDedup{client: client}
}

// IsDuplicate reports whether this exact scan has already been processed.
func (d *ScanDedup) IsDuplicate(ctx context.Context, memberUniqueID, packageName string, ts time.Time) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(memberUniqueID, packageName, ts)).Result()
	if err != nil {
		return false, fmt.Errorf("scan dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this scan has been processed (expires after scanTTL).
func (d *ScanDedup) Mark(ctx context.Context, memberUniqueID, packageName string, ts time.Time) error {
	return d.client.Set(ctx, d.key(memberUniqueID, packageName, ts), "1", scanTTL).Err()
}

func (d *ScanDedup) key(memberUniqueID, packageName string, ts time.Time) string {
	return fmt.Sprintf("scan:%s:%s:%d", memberUniqueID, packageName, ts.Unix())
}
