// Package requests assigns correlation ids to incoming requests and keeps the
// process-wide count of requests in flight.
package requests

import (
	"crypto/rand"
	"encoding/binary"
	"sync/atomic"
	"time"

	"github.com/mr-tron/base58"
)

// DefaultID tags log lines that do not belong to any request.
const DefaultID = "[-]"

var fallback atomic.Uint64

// NewID generates a short identifier used only to correlate log lines.
func NewID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand is not expected to fail; keep ids distinct anyway
		binary.BigEndian.PutUint64(buf, uint64(time.Now().UnixNano())+fallback.Add(1))
	}
	return "[" + base58.Encode(buf) + "]"
}
