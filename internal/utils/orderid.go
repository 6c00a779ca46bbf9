package utils

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateOrderID returns a unique order id for a wallet top-up attempt,
// e.g. WLT-20261019-3F2A9C1E5B7D4E0F8A6B2C4D1E3F5A7B.
func GenerateOrderID() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "WLT-" + time.Now().UTC().Format("20060102") + "-" + id
}
