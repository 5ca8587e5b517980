package fingerprint

import "testing"

func TestOfIsDeterministicAndSensitiveToContent(t *testing.T) {
	a := Of([]byte("hello happy tax payer"))
	b := Of([]byte("hello happy tax payer"))
	if a != b {
		t.Fatalf("Of() not deterministic: %d != %d", a, b)
	}
	c := Of([]byte("hello happy tax paye"))
	if a == c {
		t.Fatal("expected different fingerprints for different content")
	}
}

func TestOfEmpty(t *testing.T) {
	if Of(nil) != Of([]byte{}) {
		t.Fatal("expected Of(nil) == Of(empty slice)")
	}
}
