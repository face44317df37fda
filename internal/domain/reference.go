package domain

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// referenceTimeLayout is a compact timestamp embedded in reference numbers,
// readable by operators scanning the remote system's order list.
const referenceTimeLayout = "20060102150405"

// NewOrderReference generates the idempotency token attached to one order
// submission attempt, e.g. "SO-20260825143015-9f2c1a". The remote system
// stores it as reference_number; after an ambiguous response it is the only
// handle for locating the order and detecting duplicate creation.
//
// Each call produces a fresh token. Callers retrying the same logical
// submission must reuse the token they already generated; generating a new
// one deliberately requests a new order.
func NewOrderReference(now time.Time) string {
	u := uuid.New()
	return fmt.Sprintf("SO-%s-%s", now.UTC().Format(referenceTimeLayout), hex.EncodeToString(u[:3]))
}
