package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// CreateSHA256Hash fingerprints retrieved page content so identical bodies can be spotted in logs.
func CreateSHA256Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
