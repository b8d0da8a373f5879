package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Photo is one evidence image, owned exclusively by its report. Base64
// always carries the full data-URI prefix and is always JPEG once it has
// been through the capture pipeline. Edited flips to true the first time
// an annotation stroke is committed onto it.
type Photo struct {
	ID      string `json:"id"`
	Base64  string `json:"base64"`
	Caption string `json:"caption,omitempty"`
	Edited  bool   `json:"edited"`
}

// NewID returns a time-derived identifier for templates and reports.
func NewID() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}

// NewPhotoID mixes the clock with a random suffix so photos staged within
// the same millisecond still get distinct ids.
func NewPhotoID() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// PhotoList stores the ordered photo array as a single JSON column on the
// report row. Insertion order is significant: it drives the exported
// document layout.
type PhotoList []Photo

// Value implements driver.Valuer.
func (pl PhotoList) Value() (driver.Value, error) {
	if pl == nil {
		pl = PhotoList{}
	}
	b, err := json.Marshal(pl)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (pl *PhotoList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*pl = PhotoList{}
		return nil
	case []byte:
		return json.Unmarshal(v, pl)
	case string:
		return json.Unmarshal([]byte(v), pl)
	default:
		return fmt.Errorf("PhotoList.Scan: unsupported type %T", src)
	}
}
