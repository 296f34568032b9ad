package hash

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Ident   = "pbkdf2-sha256"
	DefaultRounds = 29000
	saltSize      = 16
	keySize       = 32
	minRounds     = 1000
)

var ErrMalformedHash = errors.New("malformed password hash")

// ab64 is the "adapted base64" alphabet used by passlib modular-crypt
// hashes: standard base64 with '.' in place of '+' and no padding.
var ab64 = base64.NewEncoding("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789./").WithPadding(base64.NoPadding)

type Hasher struct {
	Rounds int
}

func NewHasher(rounds int) *Hasher {
	if rounds < minRounds {
		rounds = DefaultRounds
	}
	return &Hasher{Rounds: rounds}
}

// Hash returns $pbkdf2-sha256$<rounds>$<salt>$<checksum>.
func (h *Hasher) Hash(password string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}
	rounds := h.rounds()
	sum := pbkdf2.Key([]byte(password), salt, rounds, keySize, sha256.New)

	return fmt.Sprintf("$%s$%d$%s$%s", pbkdf2Ident, rounds, ab64.EncodeToString(salt), ab64.EncodeToString(sum)), nil
}

// Verify reports whether password matches encoded. Bcrypt hashes are
// accepted as well as pbkdf2-sha256 ones.
func (h *Hasher) Verify(encoded, password string) bool {
	if isBcrypt(encoded) {
		return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password)) == nil
	}

	rounds, salt, want, err := parse(encoded)
	if err != nil {
		return false
	}
	got := pbkdf2.Key([]byte(password), salt, rounds, len(want), sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}

func (h *Hasher) rounds() int {
	if h == nil || h.Rounds < minRounds {
		return DefaultRounds
	}
	return h.Rounds
}

func parse(encoded string) (int, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 5 || parts[0] != "" || parts[1] != pbkdf2Ident {
		return 0, nil, nil, ErrMalformedHash
	}
	rounds, err := strconv.Atoi(parts[2])
	if err != nil || rounds < 1 {
		return 0, nil, nil, ErrMalformedHash
	}
	salt, err := ab64.DecodeString(parts[3])
	if err != nil {
		return 0, nil, nil, ErrMalformedHash
	}
	sum, err := ab64.DecodeString(parts[4])
	if err != nil || len(sum) == 0 {
		return 0, nil, nil, ErrMalformedHash
	}
	return rounds, salt, sum, nil
}

func isBcrypt(encoded string) bool {
	return strings.HasPrefix(encoded, "$2a$") || strings.HasPrefix(encoded, "$2b$") || strings.HasPrefix(encoded, "$2y$")
}
