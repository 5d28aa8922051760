// Package auth holds the credential and access-control core of the
// accounts service.
//
// It provides:
//   - PasswordHasher: bcrypt (default) or Argon2id hashing with constant-time verify
//   - TokenService: HS256 session tokens with issuer and expiry checks
//   - Query and AccountFilter: parameterised predicate composition for listings
//   - SQLAccountRepository: account persistence on SQLite or PostgreSQL
//
// Session tokens are stateless bearer credentials. There is no revocation;
// a token is valid until it expires.
//
// Errors are classified by the sentinels in errors.go so that callers can
// map them to responses with errors.Is.
package auth
