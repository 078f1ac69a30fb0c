package history

import (
	"encoding/json"
	"fmt"
	"time"
)

// legacyRecord is a plan as exported from the browser-local store, where the
// creation time was a free-form string.
type legacyRecord struct {
	DaySnapshot
	CreatedAt any `json:"createdAt"`
}

// DecodeLegacyExport reads a JSON array of plans exported from the browser
// store. Records without an id or date are skipped. Trackers are kept raw and
// migrated on Restore.
func DecodeLegacyExport(data []byte) ([]DaySnapshot, error) {
	var records []legacyRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("invalid export file: %w", err)
	}

	out := make([]DaySnapshot, 0, len(records))
	for _, r := range records {
		if r.ID == "" || r.Date == "" {
			continue
		}
		s := r.DaySnapshot
		s.CreatedAt = parseLegacyTime(r.CreatedAt)
		out = append(out, s)
	}
	return out, nil
}

func parseLegacyTime(v any) time.Time {
	switch t := v.(type) {
	case string:
		if ts, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return ts
		}
	case float64:
		// epoch milliseconds from Date.now()
		return time.UnixMilli(int64(t)).UTC()
	}
	return time.Time{}
}
