package assert

import (
	"fmt"
	"sync/atomic"
)

// depth guards against recursive singleton construction during assembly.
var depth int64

// NotCircular panics when singleton constructors re-enter each other.
func NotCircular() {
	if atomic.AddInt64(&depth, 1) > 64 {
		panic("circular singleton initialization detected")
	}
	atomic.AddInt64(&depth, -1)
}

// NotNil panics when a required value is missing.
func NotNil(v interface{}) {
	if v == nil {
		panic(fmt.Sprintf("required value is nil: %T", v))
	}
}
