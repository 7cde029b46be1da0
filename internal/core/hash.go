package core

import (
	"fmt"
	"hash/fnv"
)

// CacheKey identifies an assembled document by page and serialized props.
func CacheKey(pageID, props string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(props))
	return fmt.Sprintf("%s:%x", pageID, h.Sum64())
}
