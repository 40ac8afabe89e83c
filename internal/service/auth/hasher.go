package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/phrazzld/tasks-api/internal/config"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Hasher names accepted in configuration.
const (
	HasherArgon2id = "argon2id"
	HasherBcrypt   = "bcrypt"
)

// PasswordHasher turns raw passwords into one-way digests and checks them.
type PasswordHasher interface {
	// Hash returns an encoded digest of password with a fresh random salt.
	Hash(password string) (string, error)

	// Verify reports whether password matches encoded. A malformed encoded
	// value yields ErrInvalidHash.
	Verify(password, encoded string) (bool, error)
}

// Argon2Params are the argon2id cost parameters.
type Argon2Params struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultArgon2Params matches the reference argon2 defaults (64 MiB, t=3, p=4).
var DefaultArgon2Params = Argon2Params{
	Memory:      64 * 1024,
	Iterations:  3,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

// Argon2idHasher hashes passwords with argon2id. The password is first keyed
// with HMAC-SHA256 under the server's hash secret, so a leaked database alone
// is not enough to mount an offline guess.
type Argon2idHasher struct {
	secret []byte
	params Argon2Params
}

var _ PasswordHasher = (*Argon2idHasher)(nil)

// NewArgon2idHasher creates an Argon2idHasher keyed with secret.
func NewArgon2idHasher(secret string, params Argon2Params) *Argon2idHasher {
	return &Argon2idHasher{secret: []byte(secret), params: params}
}

// Hash implements PasswordHasher. The result is a PHC string:
// $argon2id$v=19$m=<memory>,t=<iterations>,p=<parallelism>$<salt>$<key>
func (h *Argon2idHasher) Hash(password string) (string, error) {
	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey(h.prehash(password), salt,
		h.params.Iterations, h.params.Memory, h.params.Parallelism, h.params.KeyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory,
		h.params.Iterations,
		h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify implements PasswordHasher. Cost parameters are read from encoded,
// so hashes made with older parameters keep verifying.
func (h *Argon2idHasher) Verify(password, encoded string) (bool, error) {
	params, salt, key, err := decodeArgon2id(encoded)
	if err != nil {
		return false, err
	}

	candidate := argon2.IDKey(h.prehash(password), salt,
		params.Iterations, params.Memory, params.Parallelism, uint32(len(key)))

	return subtle.ConstantTimeCompare(key, candidate) == 1, nil
}

func (h *Argon2idHasher) prehash(password string) []byte {
	return keyedDigest(h.secret, password)
}

// keyedDigest returns HMAC-SHA256(secret, password).
func keyedDigest(secret []byte, password string) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(password))
	return mac.Sum(nil)
}

func decodeArgon2id(encoded string) (Argon2Params, []byte, []byte, error) {
	var params Argon2Params

	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != HasherArgon2id {
		return params, nil, nil, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return params, nil, nil, ErrInvalidHash
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d",
		&params.Memory, &params.Iterations, &params.Parallelism); err != nil {
		return params, nil, nil, ErrInvalidHash
	}
	if params.Memory == 0 || params.Iterations == 0 || params.Parallelism == 0 {
		return params, nil, nil, ErrInvalidHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return params, nil, nil, ErrInvalidHash
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return params, nil, nil, ErrInvalidHash
	}

	return params, salt, key, nil
}

// BcryptHasher hashes passwords with bcrypt. bcrypt rejects input over 72
// bytes, so the password is first reduced to a base64 HMAC-SHA256 digest
// (44 bytes) keyed with the hash secret.
type BcryptHasher struct {
	secret []byte
	cost   int
}

var _ PasswordHasher = (*BcryptHasher)(nil)

// NewBcryptHasher creates a BcryptHasher keyed with secret. A cost outside
// bcrypt's range uses bcrypt.DefaultCost.
func NewBcryptHasher(secret string, cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{secret: []byte(secret), cost: cost}
}

func (h *BcryptHasher) prehash(password string) []byte {
	digest := keyedDigest(h.secret, password)
	out := make([]byte, base64.StdEncoding.EncodedLen(len(digest)))
	base64.StdEncoding.Encode(out, digest)
	return out
}

// Hash implements PasswordHasher.
func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(h.prehash(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify implements PasswordHasher.
func (h *BcryptHasher) Verify(password, encoded string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encoded), h.prehash(password))
	switch {
	case err == nil:
		return true, nil
	case err == bcrypt.ErrMismatchedHashAndPassword:
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
}

// multiHasher hashes with primary and verifies whichever format a stored hash
// is in, so switching the configured algorithm does not lock out existing users.
type multiHasher struct {
	primary PasswordHasher
	argon   *Argon2idHasher
	bcrypt  *BcryptHasher
}

func (m *multiHasher) Hash(password string) (string, error) {
	return m.primary.Hash(password)
}

func (m *multiHasher) Verify(password, encoded string) (bool, error) {
	switch {
	case strings.HasPrefix(encoded, "$argon2id$"):
		return m.argon.Verify(password, encoded)
	case strings.HasPrefix(encoded, "$2a$"), strings.HasPrefix(encoded, "$2b$"), strings.HasPrefix(encoded, "$2y$"):
		return m.bcrypt.Verify(password, encoded)
	default:
		return false, ErrInvalidHash
	}
}

// NewPasswordHasher builds the hasher selected by cfg.PasswordHasher. The
// returned hasher verifies both argon2id and bcrypt hashes.
func NewPasswordHasher(cfg config.AuthConfig) (PasswordHasher, error) {
	m := &multiHasher{
		argon:  NewArgon2idHasher(cfg.HashSecret, DefaultArgon2Params),
		bcrypt: NewBcryptHasher(cfg.HashSecret, bcrypt.DefaultCost),
	}

	switch cfg.PasswordHasher {
	case "", HasherArgon2id:
		m.primary = m.argon
	case HasherBcrypt:
		m.primary = m.bcrypt
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedHasher, cfg.PasswordHasher)
	}

	return m, nil
}
