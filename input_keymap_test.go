// input_keymap_test.go - Key name lookups

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionPads
License: GPLv3 or later
*/

package main

import "testing"

func TestKeyNameRoundTrip(t *testing.T) {
	code, ok := KeyCodeByName("KEY_A")
	if !ok || code != 30 {
		t.Fatalf("KEY_A = %d (ok=%v), want 30", code, ok)
	}
	if name := KeyNameByCode(code); name != "KEY_A" {
		t.Fatalf("KeyNameByCode(30) = %q, want KEY_A", name)
	}
	if name := KeyNameByCode(9999); name != "?" {
		t.Fatalf("unknown code = %q, want ?", name)
	}
	if _, ok := KeyCodeByName("KEY_BOGUS"); ok {
		t.Fatal("KEY_BOGUS should not resolve")
	}
}
