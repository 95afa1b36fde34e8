package ws

import (
	"crypto/rand"
	"encoding/hex"
)

// newConnID mints a random id for one notification connection, used to
// correlate its connect, disconnect and error events.
func newConnID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	return "ntf-" + hex.EncodeToString(buf)
}
