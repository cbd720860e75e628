package password

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"

	"golang.org/x/crypto/argon2"
)

const (
	timeCost    uint32 = 3
	memoryKB    uint32 = 64 * 1024
	parallelism uint8  = 2
	keyLength   uint32 = 32
)

// Argon2Service derives peppered Argon2id digests. The salt is derived from
// the service secret instead of being stored per digest, so hashing is
// deterministic and login can recompute-and-compare without a salt column.
type Argon2Service struct {
	pepper []byte
	salt   []byte
}

func NewArgon2Service(secret string) (*Argon2Service, error) {
	if secret == "" {
		return nil, errors.New("password: secret is required")
	}
	salt := sha256.Sum256([]byte("signup-password-salt:" + secret))
	return &Argon2Service{
		pepper: []byte(secret),
		salt:   salt[:16],
	}, nil
}

func (s *Argon2Service) Hash(password string) (string, error) {
	if password == "" {
		return "", errors.New("password: empty password")
	}
	peppered := append([]byte(password), s.pepper...)
	key := argon2.IDKey(peppered, s.salt, timeCost, memoryKB, parallelism, keyLength)
	return base64.RawStdEncoding.EncodeToString(key), nil
}

func (s *Argon2Service) Compare(digest, password string) (bool, error) {
	if digest == "" {
		return false, errors.New("password: empty digest")
	}
	computed, err := s.Hash(password)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) == 1, nil
}
