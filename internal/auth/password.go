// Package auth hashes and verifies company portal passwords with argon2id.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/finad-dev/finad/internal/model"
)

const (
	argonTime    uint32 = 1
	argonMemory  uint32 = 64 * 1024
	argonThreads uint8  = 4
	argonKeyLen  uint32 = 32
	argonSaltLen        = 16

	// MinPasswordLength is the shortest password Hash accepts.
	MinPasswordLength = 8
)

// Hash returns the encoded argon2id hash of password.
func Hash(password string) (string, error) {
	if len(strings.TrimSpace(password)) < MinPasswordLength {
		return "", model.ValidationError{Field: "password", Reason: fmt.Sprintf("must be at least %d characters", MinPasswordLength)}
	}
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}
	hash := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash)), nil
}

// Verify reports whether password matches an encoded hash. Malformed hashes
// never match.
func Verify(password, encoded string) bool {
	p, salt, hash, ok := decode(encoded)
	if !ok {
		return false
	}
	check := argon2.IDKey([]byte(password), salt, p.time, p.memory, p.threads, uint32(len(hash)))
	return subtle.ConstantTimeCompare(hash, check) == 1
}

type params struct {
	memory  uint32
	time    uint32
	threads uint8
}

func decode(encoded string) (params, []byte, []byte, bool) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" || parts[2] != "v=19" {
		return params{}, nil, nil, false
	}

	fields := strings.Split(parts[3], ",")
	if len(fields) != 3 {
		return params{}, nil, nil, false
	}
	m, okM := strings.CutPrefix(fields[0], "m=")
	t, okT := strings.CutPrefix(fields[1], "t=")
	th, okP := strings.CutPrefix(fields[2], "p=")
	if !okM || !okT || !okP {
		return params{}, nil, nil, false
	}
	m64, err := strconv.ParseUint(m, 10, 32)
	if err != nil {
		return params{}, nil, nil, false
	}
	t64, err := strconv.ParseUint(t, 10, 32)
	if err != nil {
		return params{}, nil, nil, false
	}
	p64, err := strconv.ParseUint(th, 10, 8)
	if err != nil {
		return params{}, nil, nil, false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return params{}, nil, nil, false
	}
	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(hash) == 0 {
		return params{}, nil, nil, false
	}
	return params{memory: uint32(m64), time: uint32(t64), threads: uint8(p64)}, salt, hash, true
}
