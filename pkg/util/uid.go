package util

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"math/big"

	"github.com/google/uuid"
)

// UUIDRoot is the UID root for UIDs derived from a UUID (PS3.5 B.2)
const UUIDRoot = "2.25."

// Md5ThenHex is a quick hasher
func Md5ThenHex(value []byte) string {
	hasher := md5.New()
	hasher.Write(value)
	return hex.EncodeToString(hasher.Sum(nil))
}

// NewUID returns a random 2.25 UID
func NewUID() string {
	return uuidToUID(uuid.New())
}

// HashUID returns a 2.25 UID derived from the JSON form of value, so the same
// input always maps to the same UID
func HashUID(value any) string {
	raw, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	hasher := md5.New()
	hasher.Write(raw)
	hash := hasher.Sum(nil)
	id, err := uuid.FromBytes(hash[:16])
	if err != nil {
		return ""
	}
	return uuidToUID(id)
}

func uuidToUID(id uuid.UUID) string {
	return UUIDRoot + new(big.Int).SetBytes(id[:]).String()
}
