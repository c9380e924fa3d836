package crypto

import (
	"crypto/subtle"
	"runtime"
)

// Wipe zeroes b in place. Best-effort: Go gives no guarantee that copies made
// earlier by the runtime are cleared.
//
//go:noinline
func Wipe(b []byte) {
	if len(b) == 0 {
		return
	}
	subtle.ConstantTimeCopy(1, b, make([]byte, len(b)))
	runtime.KeepAlive(&b)
}
