package assert

import (
	"fmt"
	"sync/atomic"
)

var initDepth int32

// NotCircular guards singleton accessors against re-entrant initialization.
// Call at the top of every Default*Resource accessor.
func NotCircular() {
	if atomic.AddInt32(&initDepth, 1) > 64 {
		panic("circular resource initialization detected")
	}
	atomic.AddInt32(&initDepth, -1)
}

// NotNil panics if v is nil.
func NotNil(v interface{}) {
	if v == nil {
		panic("unexpected nil value")
	}
}

// Equal panics with msg if a != b. Used for programming-contract checks that
// must fail loudly instead of silently truncating.
func Equal(a, b int, msg string) {
	if a != b {
		panic(fmt.Sprintf("%s: %d != %d", msg, a, b))
	}
}
