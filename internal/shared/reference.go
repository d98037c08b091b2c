package shared

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewReference returns a human-readable document number such as
// "PO-20250131-1A2B3C4D".
func NewReference(prefix string, now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return prefix + "-" + now.UTC().Format("20060102") + "-" + suffix
}
