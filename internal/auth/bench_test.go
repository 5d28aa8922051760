package auth

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// ─── Password hashing (intentionally slow) ──────────────────────────

func BenchmarkHashBcrypt(b *testing.B) {
	h, _ := NewPasswordHasher(AlgorithmBcrypt, bcrypt.DefaultCost) //nolint:errcheck // benchmark
	for i := 0; i < b.N; i++ {
		h.Hash("correct-horse-battery-staple") //nolint:errcheck // benchmark
	}
}

func BenchmarkHashArgon2id(b *testing.B) {
	h, _ := NewPasswordHasher(AlgorithmArgon2id, 0) //nolint:errcheck // benchmark
	for i := 0; i < b.N; i++ {
		h.Hash("correct-horse-battery-staple") //nolint:errcheck // benchmark
	}
}

// ─── Session tokens (per-request hot path) ──────────────────────────

func BenchmarkIssueToken(b *testing.B) {
	svc, err := NewTokenService(testSecret, "bench", time.Hour)
	if err != nil {
		b.Fatalf("NewTokenService: %v", err)
	}
	acc := testAccount()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		svc.Issue(acc) //nolint:errcheck // benchmark
	}
}

func BenchmarkValidateToken(b *testing.B) {
	svc, err := NewTokenService(testSecret, "bench", time.Hour)
	if err != nil {
		b.Fatalf("NewTokenService: %v", err)
	}
	token, _, err := svc.Issue(testAccount())
	if err != nil {
		b.Fatalf("Issue: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		svc.Validate(token) //nolint:errcheck // benchmark
	}
}

// ─── Query composition ──────────────────────────────────────────────

func BenchmarkListQueries(b *testing.B) {
	verified := true
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f := AccountFilter{Name: "ann", Email: "x.com", Verified: &verified, RegisteredFrom: &from, Page: 2, Limit: 20}

	for i := 0; i < b.N; i++ {
		f.ListQueries("postgres")
	}
}
