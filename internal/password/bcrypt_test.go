package password

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	digest, err := h.Hash("s3cret")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if digest == "s3cret" || !strings.HasPrefix(digest, "$2a$") {
		t.Fatalf("digest does not look like bcrypt: %q", digest)
	}

	if !h.Verify("s3cret", digest) {
		t.Fatal("correct password must verify")
	}
	if h.Verify("wrong", digest) {
		t.Fatal("wrong password must not verify")
	}
}

func TestHash_Salted(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	a, _ := h.Hash("same")
	b, _ := h.Hash("same")
	if a == b {
		t.Fatal("two hashes of the same password must differ")
	}
}

func TestVerify_MalformedDigest(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	if h.Verify("anything", "not-a-bcrypt-digest") {
		t.Fatal("malformed digest must count as mismatch")
	}
	if h.Verify("anything", "") {
		t.Fatal("empty digest must count as mismatch")
	}
}

func TestNewHasher_CostClamping(t *testing.T) {
	for _, cost := range []int{-1, 0, bcrypt.MaxCost + 1} {
		h := NewHasher(cost)
		if h.cost != bcrypt.DefaultCost {
			t.Fatalf("cost %d: want default %d, got %d", cost, bcrypt.DefaultCost, h.cost)
		}
	}
	if h := NewHasher(12); h.cost != 12 {
		t.Fatalf("valid cost must be kept, got %d", h.cost)
	}
}
