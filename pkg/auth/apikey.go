package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// KeyStore maps hashed client keys to client names. It is immutable after
// construction. Only SHA-256 digests of the keys are held in memory.
type KeyStore struct {
	keys map[string]string // SHA-256(key) → client name
}

// ParseKeys builds a KeyStore from MCP_API_KEYS: a comma-separated list of
// "client:key" pairs. A bare key is accepted and named "client-N" after its
// position in the list.
func ParseKeys(raw string) *KeyStore {
	ks := &KeyStore{keys: make(map[string]string)}
	for i, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		client, key, ok := strings.Cut(entry, ":")
		if !ok {
			client, key = fmt.Sprintf("client-%d", i+1), entry
		}
		client, key = strings.TrimSpace(client), strings.TrimSpace(key)
		if key == "" {
			continue
		}
		ks.keys[hashKey(key)] = client
	}
	return ks
}

// Lookup returns the client name registered for key.
func (ks *KeyStore) Lookup(key string) (client string, ok bool) {
	if key == "" {
		return "", false
	}
	client, ok = ks.keys[hashKey(key)]
	return
}

// Len reports how many keys are configured.
func (ks *KeyStore) Len() int { return len(ks.keys) }

func hashKey(key string) string {
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:])
}
