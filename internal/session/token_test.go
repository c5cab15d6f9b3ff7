package session_test

import (
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"freshthreads/internal/session"
)

func TestSealOpen_RoundTrip(t *testing.T) {
	key := session.Key("test-secret")
	cookie, err := session.Seal(key, "sid-123", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	sid, err := session.Open(key, cookie)
	if err != nil {
		t.Fatal(err)
	}
	if sid != "sid-123" {
		t.Fatalf("sid = %q", sid)
	}
}

func TestOpen_TamperedTokenIsRejected(t *testing.T) {
	key := session.Key("test-secret")
	cookie, err := session.Seal(key, "sid-123", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	raw, err := base64.RawURLEncoding.DecodeString(cookie)
	if err != nil {
		t.Fatal(err)
	}
	raw[len(raw)-1] ^= 0x01
	tampered := base64.RawURLEncoding.EncodeToString(raw)

	if _, err := session.Open(key, tampered); !errors.Is(err, session.ErrBadToken) {
		t.Fatalf("err = %v, want ErrBadToken", err)
	}
}

func TestOpen_WrongKeyIsRejected(t *testing.T) {
	cookie, err := session.Seal(session.Key("secret-a"), "sid-123", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := session.Open(session.Key("secret-b"), cookie); !errors.Is(err, session.ErrBadToken) {
		t.Fatalf("err = %v, want ErrBadToken", err)
	}
}

func TestOpen_ExpiredTokenIsRejected(t *testing.T) {
	key := session.Key("test-secret")
	cookie, err := session.Seal(key, "sid-123", -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := session.Open(key, cookie); !errors.Is(err, session.ErrBadToken) {
		t.Fatalf("err = %v, want ErrBadToken", err)
	}
}

func TestOpen_GarbageIsRejected(t *testing.T) {
	key := session.Key("test-secret")
	for _, raw := range []string{"", "not base64 !!!", "YWJj"} {
		if _, err := session.Open(key, raw); !errors.Is(err, session.ErrBadToken) {
			t.Fatalf("Open(%q) err = %v, want ErrBadToken", raw, err)
		}
	}
}
