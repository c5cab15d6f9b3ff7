package validate_test

import (
	"testing"

	"freshthreads/internal/validate"
)

func TestEmail(t *testing.T) {
	if _, ok := validate.Email("jamie@example.com"); !ok {
		t.Fatal("valid email rejected")
	}
	for _, bad := range []string{"", "no-at-sign", "a@b", "@example.com"} {
		if _, ok := validate.Email(bad); ok {
			t.Fatalf("Email(%q) accepted", bad)
		}
	}
	if got, ok := validate.Email("  jamie@example.com  "); !ok || got != "jamie@example.com" {
		t.Fatalf("Email should trim: got %q ok=%v", got, ok)
	}
}

func TestPhone(t *testing.T) {
	for _, good := range []string{"+1 (301) 555-0100", "301555", "0123456789"} {
		if _, ok := validate.Phone(good); !ok {
			t.Fatalf("Phone(%q) rejected", good)
		}
	}
	for _, bad := range []string{"", "abc", "12345", "++++++"} {
		if _, ok := validate.Phone(bad); ok {
			t.Fatalf("Phone(%q) accepted", bad)
		}
	}
}

func TestQty_ClampsToBounds(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want int
	}{
		{"3", 10, 3},
		{"0", 10, 1},
		{"-4", 10, 1},
		{"garbage", 10, 1},
		{"99", 3, 3},
		{"99", 0, 99},
	}
	for _, tc := range cases {
		if got := validate.Qty(tc.in, tc.max); got != tc.want {
			t.Fatalf("Qty(%q, %d) = %d, want %d", tc.in, tc.max, got, tc.want)
		}
	}
}

func TestSlug(t *testing.T) {
	for _, good := range []string{"crew-tee", "tee", "a-1-b-2"} {
		if _, ok := validate.Slug(good); !ok {
			t.Fatalf("Slug(%q) rejected", good)
		}
	}
	for _, bad := range []string{"", "Crew-Tee", "-leading", "trailing-", "has space", "a--b"} {
		if _, ok := validate.Slug(bad); ok {
			t.Fatalf("Slug(%q) accepted", bad)
		}
	}
}

func TestNumID(t *testing.T) {
	if n, ok := validate.NumID(" 42 "); !ok || n != 42 {
		t.Fatalf("NumID = %d ok=%v", n, ok)
	}
	for _, bad := range []string{"", "0", "-1", "abc"} {
		if _, ok := validate.NumID(bad); ok {
			t.Fatalf("NumID(%q) accepted", bad)
		}
	}
}

func TestPage_DefaultsAndClamps(t *testing.T) {
	if p, s := validate.Page("", ""); p != 0 || s != 10 {
		t.Fatalf("defaults = %d,%d", p, s)
	}
	if p, s := validate.Page("-2", "500"); p != 0 || s != 50 {
		t.Fatalf("clamped = %d,%d", p, s)
	}
	if p, s := validate.Page("3", "25"); p != 3 || s != 25 {
		t.Fatalf("passthrough = %d,%d", p, s)
	}
}
