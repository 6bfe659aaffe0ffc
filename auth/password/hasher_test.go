package password

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func testHashers() map[string]Hasher {
	return map[string]Hasher{
		"bcrypt":   NewBcryptHasher(WithCost(bcrypt.MinCost)),
		"argon2id": NewArgon2Hasher(WithArgon2Memory(8*1024), WithArgon2Threads(1)),
	}
}

func TestHasher_RoundTrip(t *testing.T) {
	for name, h := range testHashers() {
		t.Run(name, func(t *testing.T) {
			digest, err := h.Hash("P@ssw0rd1")
			if err != nil {
				t.Fatalf("Hash: %v", err)
			}
			if strings.Contains(digest, "P@ssw0rd1") {
				t.Fatal("digest must not contain the plaintext")
			}
			if !h.Verify("P@ssw0rd1", digest) {
				t.Error("expected matching password to verify")
			}
			if h.Verify("P@ssw0rd2", digest) {
				t.Error("expected wrong password to fail")
			}
		})
	}
}

func TestHasher_FreshSaltPerCall(t *testing.T) {
	for name, h := range testHashers() {
		t.Run(name, func(t *testing.T) {
			a, err := h.Hash("P@ssw0rd1")
			if err != nil {
				t.Fatal(err)
			}
			b, err := h.Hash("P@ssw0rd1")
			if err != nil {
				t.Fatal(err)
			}
			if a == b {
				t.Error("expected distinct digests for the same password")
			}
		})
	}
}

func TestHasher_MalformedDigestReturnsFalse(t *testing.T) {
	malformed := []string{
		"",
		"not-a-hash",
		"$2a$10$short",
		"$argon2id$v=19$m=65536,t=1,p=4$$",
		"$argon2id$v=19$m=0,t=1,p=4$c2FsdA$a2V5",
		"$argon2id$v=19$m=65536,t=1,p=0$c2FsdA$a2V5",
		"$argon2id$v=18$m=65536,t=1,p=4$c2FsdA$a2V5",
		"$argon2id$v=19$m=99999999,t=1,p=4$c2FsdA$a2V5",
		"$argon2id$v=19$m=65536,t=1,p=4$!!!$a2V5",
		"$argon2i$v=19$m=65536,t=1,p=4$c2FsdA$a2V5",
	}
	for name, h := range testHashers() {
		for _, d := range malformed {
			if h.Verify("P@ssw0rd1", d) {
				t.Errorf("%s: Verify(%q) = true, want false", name, d)
			}
		}
	}
}

func TestBcryptHasher_EmbedsCost(t *testing.T) {
	h := NewBcryptHasher(WithCost(5))
	digest, err := h.Hash("P@ssw0rd1")
	if err != nil {
		t.Fatal(err)
	}
	cost, err := bcrypt.Cost([]byte(digest))
	if err != nil {
		t.Fatal(err)
	}
	if cost != 5 {
		t.Errorf("expected cost 5, got %d", cost)
	}
}

func TestBcryptHasher_IgnoresOutOfRangeCost(t *testing.T) {
	if got := NewBcryptHasher(WithCost(99)).Cost(); got != DefaultBcryptCost {
		t.Errorf("expected default cost, got %d", got)
	}
}

func TestBcryptHasher_LongMultibytePassword(t *testing.T) {
	h := NewBcryptHasher(WithCost(bcrypt.MinCost))
	pw := strings.Repeat("€", 25) // 75 bytes
	digest, err := h.Hash(pw)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !h.Verify(pw, digest) {
		t.Error("expected long password to verify")
	}
	if h.Verify(strings.Repeat("€", 24), digest) {
		t.Error("expected shorter password to be rejected")
	}
}

func TestBcryptHasher_ReadsFirst72Bytes(t *testing.T) {
	h := NewBcryptHasher(WithCost(bcrypt.MinCost))
	base := strings.Repeat("x", 72)
	digest, err := h.Hash(base + "tail")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !h.Verify(base, digest) {
		t.Error("expected bytes past 72 to be ignored")
	}
	// digests made by other bcrypt implementations from the truncated input verify too
	legacy, err := bcrypt.GenerateFromPassword([]byte(base), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	if !h.Verify(base+"tail", string(legacy)) {
		t.Error("expected compatibility with a digest of the truncated input")
	}
}

func TestArgon2Hasher_DigestFormat(t *testing.T) {
	h := NewArgon2Hasher(WithArgon2Time(2), WithArgon2Memory(8*1024), WithArgon2Threads(1))
	digest, err := h.Hash("P@ssw0rd1")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(digest, "$argon2id$v=19$m=8192,t=2,p=1$") {
		t.Errorf("unexpected digest prefix: %s", digest)
	}
}

func TestNewHasher(t *testing.T) {
	if _, ok := NewHasher(Config{}).(*BcryptHasher); !ok {
		t.Error("expected bcrypt by default")
	}
	if _, ok := NewHasher(Config{Algorithm: AlgorithmArgon2id}).(*Argon2Hasher); !ok {
		t.Error("expected argon2id hasher")
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.BcryptCost != 10 {
		t.Errorf("expected default cost 10, got %d", cfg.BcryptCost)
	}

	bad := Config{Algorithm: "md5"}
	bad.ApplyDefaults()
	if err := bad.Validate(); err == nil {
		t.Error("expected error for unsupported algorithm")
	}
}
