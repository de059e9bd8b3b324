package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DocumentHash returns the hex sha256 of the uploaded document bytes.
func DocumentHash(doc []byte) string {
	sum := sha256.Sum256(doc)
	return hex.EncodeToString(sum[:])
}

// ResultKey is the cache key for a structured-extraction result.
func ResultKey(docHash string) string {
	return fmt.Sprintf("extract:result:%s", docHash)
}
