package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/phrazzld/accounts-api/internal/domain"
)

// Default argon2id parameters (OWASP baseline).
const (
	DefaultTime       = 1         // iterations
	DefaultMemoryKiB  = 64 * 1024 // 64 MiB
	DefaultThreads    = 4         // parallelism
	DefaultSaltLength = 16        // bytes
	DefaultKeyLength  = 32        // bytes
)

// Upper bounds accepted when verifying a stored digest. A digest asking for
// more work than this is rejected rather than computed.
const (
	maxTime      = 64
	maxMemoryKiB = 1 << 20 // 1 GiB
	minSaltLen   = 8
	minKeyLen    = 16
	maxKeyLen    = 1024
)

// PasswordHasher turns plaintext secrets into self-describing digests and
// checks secrets against stored digests.
type PasswordHasher interface {
	// Hash produces a salted argon2id digest in PHC string format.
	// Two calls with the same password return different digests.
	Hash(password string) (string, error)

	// Verify reports whether password matches digest.
	// Returns (true, nil) on match and (false, nil) on mismatch or on a
	// structurally malformed digest. Returns (false, ErrUnsupportedDigest)
	// when the digest parses but cannot be verified by this hasher.
	Verify(password, digest string) (bool, error)

	// NeedsRehash reports whether digest was produced with parameters other
	// than the hasher's current ones.
	NeedsRehash(digest string) bool
}

// Params holds argon2id cost parameters.
type Params struct {
	Time       uint32
	MemoryKiB  uint32
	Threads    uint8
	SaltLength uint32
	KeyLength  uint32
}

// DefaultParams returns the baseline argon2id parameters.
func DefaultParams() Params {
	return Params{
		Time:       DefaultTime,
		MemoryKiB:  DefaultMemoryKiB,
		Threads:    DefaultThreads,
		SaltLength: DefaultSaltLength,
		KeyLength:  DefaultKeyLength,
	}
}

func (p Params) validate() error {
	switch {
	case p.Time == 0 || p.Time > maxTime:
		return fmt.Errorf("argon2 time must be between 1 and %d, got %d", maxTime, p.Time)
	case p.MemoryKiB < 8*uint32(p.Threads) || p.MemoryKiB > maxMemoryKiB:
		return fmt.Errorf("argon2 memory %d KiB out of range", p.MemoryKiB)
	case p.Threads == 0:
		return fmt.Errorf("argon2 threads must be positive")
	case p.SaltLength < minSaltLen:
		return fmt.Errorf("salt length must be at least %d bytes", minSaltLen)
	case p.KeyLength < minKeyLen || p.KeyLength > maxKeyLen:
		return fmt.Errorf("key length must be between %d and %d bytes", minKeyLen, maxKeyLen)
	}
	return nil
}

// Argon2idHasher implements PasswordHasher using argon2id.
type Argon2idHasher struct {
	params Params
	random io.Reader
}

// Ensure Argon2idHasher implements PasswordHasher
var _ PasswordHasher = (*Argon2idHasher)(nil)

// NewArgon2idHasher creates a hasher with the given parameters.
// Returns an error if the parameters are outside the supported range.
func NewArgon2idHasher(params Params) (*Argon2idHasher, error) {
	if err := params.validate(); err != nil {
		return nil, fmt.Errorf("invalid hashing parameters: %w", err)
	}
	return &Argon2idHasher{
		params: params,
		random: rand.Reader,
	}, nil
}

// Params returns the parameters new digests are produced with.
func (h *Argon2idHasher) Params() Params {
	return h.params
}

// Hash implements PasswordHasher.Hash.
func (h *Argon2idHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	salt := make([]byte, h.params.SaltLength)
	if _, err := io.ReadFull(h.random, salt); err != nil {
		return "", fmt.Errorf("%w: generate salt: %v", domain.ErrHashing, err)
	}

	key := argon2.IDKey([]byte(password), salt, h.params.Time, h.params.MemoryKiB, h.params.Threads, h.params.KeyLength)

	// $argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>
	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.MemoryKiB,
		h.params.Time,
		h.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify implements PasswordHasher.Verify.
func (h *Argon2idHasher) Verify(password, digest string) (bool, error) {
	parsed, ok, err := parseDigest(digest)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	computed := argon2.IDKey(
		[]byte(password),
		parsed.salt,
		parsed.params.Time,
		parsed.params.MemoryKiB,
		parsed.params.Threads,
		uint32(len(parsed.key)),
	)

	return subtle.ConstantTimeCompare(computed, parsed.key) == 1, nil
}

// NeedsRehash implements PasswordHasher.NeedsRehash.
// Digests that cannot be parsed always need a rehash.
func (h *Argon2idHasher) NeedsRehash(digest string) bool {
	parsed, ok, err := parseDigest(digest)
	if err != nil || !ok {
		return true
	}
	return parsed.params.Time != h.params.Time ||
		parsed.params.MemoryKiB != h.params.MemoryKiB ||
		parsed.params.Threads != h.params.Threads ||
		uint32(len(parsed.salt)) != h.params.SaltLength ||
		uint32(len(parsed.key)) != h.params.KeyLength
}

type parsedDigest struct {
	params Params
	salt   []byte
	key    []byte
}

// parseDigest decodes a PHC argon2id string. It returns ok=false for
// strings that are not structurally a digest and ErrUnsupportedDigest for
// digests this hasher refuses to compute.
func parseDigest(digest string) (parsedDigest, bool, error) {
	var out parsedDigest

	parts := strings.Split(digest, "$")
	if len(parts) != 6 || parts[0] != "" {
		return out, false, nil
	}

	if parts[1] != "argon2id" {
		return out, false, fmt.Errorf("%w: algorithm %q", ErrUnsupportedDigest, parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return out, false, nil
	}
	if version != argon2.Version {
		return out, false, fmt.Errorf("%w: version %d", ErrUnsupportedDigest, version)
	}

	var memory, iterations, threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return out, false, nil
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return out, false, nil
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return out, false, nil
	}

	if iterations == 0 || iterations > maxTime ||
		memory == 0 || memory > maxMemoryKiB ||
		threads == 0 || threads > 255 ||
		len(key) > maxKeyLen {
		return out, false, fmt.Errorf("%w: parameters out of range", ErrUnsupportedDigest)
	}

	out.params = Params{
		Time:       iterations,
		MemoryKiB:  memory,
		Threads:    uint8(threads),
		SaltLength: uint32(len(salt)),
		KeyLength:  uint32(len(key)),
	}
	out.salt = salt
	out.key = key
	return out, true, nil
}
