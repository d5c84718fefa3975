// Package volume reports how full the volume under a directory is.
package volume

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/disk"
)

// Usage is a point-in-time view of a volume.
type Usage struct {
	Path        string  `json:"path"`
	Fstype      string  `json:"fstype"`
	Total       uint64  `json:"total"`
	Free        uint64  `json:"free"`
	Used        uint64  `json:"used"`
	UsedPercent float64 `json:"usedPercent"`
}

// Stat returns the usage of the volume containing dir.
func Stat(ctx context.Context, dir string) (Usage, error) {
	st, err := disk.UsageWithContext(ctx, dir)
	if err != nil {
		return Usage{}, fmt.Errorf("volume usage of %s: %w", dir, err)
	}
	return Usage{
		Path:        st.Path,
		Fstype:      st.Fstype,
		Total:       st.Total,
		Free:        st.Free,
		Used:        st.Used,
		UsedPercent: st.UsedPercent,
	}, nil
}
