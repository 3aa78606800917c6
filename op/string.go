package op

import (
	"fmt"
	"sync/atomic"
)

var uniqueCounter uint64

// Unique appends an _ followed by a process-wide counter to name.
// Gorgonia merges input nodes with equal names, types, and shapes, so
// nodes which must stay distinct should be given unique names.
func Unique(name string) string {
	return fmt.Sprintf("%v_%v", name, atomic.AddUint64(&uniqueCounter, 1))
}
