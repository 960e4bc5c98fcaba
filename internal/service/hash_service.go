package service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	argon2KeyLen  = 32
	argon2SaltLen = 16
)

// Argon2Params are the cost settings written into new hashes. Verify reads
// the settings stored in each hash, so raising them never locks out users.
type Argon2Params struct {
	Memory  uint32 // KiB
	Time    uint32
	Threads uint8
}

// DefaultArgon2Params matches the OWASP baseline for Argon2id.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{Memory: 64 * 1024, Time: 1, Threads: 4}
}

// Argon2HashService implements ports.HashService with Argon2id in the PHC
// string format: $argon2id$v=19$m=<KiB>,t=<iterations>,p=<threads>$salt$key
type Argon2HashService struct {
	params Argon2Params
}

func NewArgon2HashService(params Argon2Params) *Argon2HashService {
	return &Argon2HashService{params: params}
}

func (s *Argon2HashService) Hash(password string) (string, error) {
	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}
	p := s.params
	key := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, argon2KeyLen)

	var b strings.Builder
	b.WriteString("$argon2id$v=")
	b.WriteString(strconv.Itoa(argon2.Version))
	fmt.Fprintf(&b, "$m=%d,t=%d,p=%d$", p.Memory, p.Time, p.Threads)
	b.WriteString(base64.RawStdEncoding.EncodeToString(salt))
	b.WriteByte('$')
	b.WriteString(base64.RawStdEncoding.EncodeToString(key))
	return b.String(), nil
}

func (s *Argon2HashService) Verify(password, encoded string) (bool, error) {
	h, err := parsePHC(encoded)
	if err != nil {
		return false, err
	}
	key := argon2.IDKey([]byte(password), h.salt, h.params.Time, h.params.Memory, h.params.Threads, uint32(len(h.key)))
	return subtle.ConstantTimeCompare(h.key, key) == 1, nil
}

type phcHash struct {
	params Argon2Params
	salt   []byte
	key    []byte
}

func parsePHC(encoded string) (*phcHash, error) {
	// Leading "$" yields an empty first field.
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, errors.New("invalid hash format")
	}
	if parts[1] != "argon2id" {
		return nil, fmt.Errorf("unsupported algorithm: %s", parts[1])
	}
	if parts[2] != "v="+strconv.Itoa(argon2.Version) {
		return nil, fmt.Errorf("incompatible argon2 version: %s", parts[2])
	}

	var h phcHash
	for _, kv := range strings.Split(parts[3], ",") {
		name, raw, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("parsing params: %q", kv)
		}
		n, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("parsing params: %w", err)
		}
		switch name {
		case "m":
			h.params.Memory = uint32(n)
		case "t":
			h.params.Time = uint32(n)
		case "p":
			if n > 255 {
				return nil, fmt.Errorf("parsing params: p=%d", n)
			}
			h.params.Threads = uint8(n)
		default:
			return nil, fmt.Errorf("parsing params: unknown %q", name)
		}
	}
	if h.params.Memory == 0 || h.params.Time == 0 || h.params.Threads == 0 {
		return nil, errors.New("parsing params: m, t and p are required")
	}

	var err error
	if h.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, fmt.Errorf("decoding salt: %w", err)
	}
	if h.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return nil, fmt.Errorf("decoding key: %w", err)
	}
	if len(h.key) == 0 {
		return nil, errors.New("empty key")
	}
	return &h, nil
}
