package session

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"golang.org/x/crypto/nacl/secretbox"
)

// The session cookie carries a sealed token: an authenticated, encrypted
// payload holding the session id and its expiry. Tampered or expired
// tokens open to ErrBadToken, never to a partial value.

var ErrBadToken = errors.New("invalid session token")

type tokenPayload struct {
	SID string `json:"sid"`
	Exp int64  `json:"exp"`
}

// Key derives the 32-byte sealing key from the configured secret.
func Key(secret string) [32]byte {
	return sha256.Sum256([]byte(secret))
}

// Seal produces the cookie value for a session id with the given lifetime.
func Seal(key [32]byte, sid string, ttl time.Duration) (string, error) {
	payload, err := json.Marshal(tokenPayload{SID: sid, Exp: time.Now().Add(ttl).Unix()})
	if err != nil {
		return "", err
	}
	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", err
	}
	sealed := secretbox.Seal(nonce[:], payload, &nonce, &key)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Open recovers the session id from a cookie value.
func Open(key [32]byte, raw string) (string, error) {
	sealed, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil || len(sealed) < 24 {
		return "", ErrBadToken
	}
	var nonce [24]byte
	copy(nonce[:], sealed[:24])
	payload, ok := secretbox.Open(nil, sealed[24:], &nonce, &key)
	if !ok {
		return "", ErrBadToken
	}
	var tp tokenPayload
	if err := json.Unmarshal(payload, &tp); err != nil || tp.SID == "" {
		return "", ErrBadToken
	}
	if tp.Exp > 0 && time.Now().Unix() > tp.Exp {
		return "", ErrBadToken
	}
	return tp.SID, nil
}
