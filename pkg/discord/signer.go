package discord

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

// Signer signs request bodies the way Discord does, for local testing and
// tooling.
type Signer struct {
	privateKey ed25519.PrivateKey
}

func NewSigner(privateKey ed25519.PrivateKey) *Signer {
	return &Signer{privateKey: privateKey}
}

// NewSignerFromSeed builds a Signer from a hex encoded 32 byte seed.
func NewSignerFromSeed(seedHex string) (*Signer, error) {
	seed, err := ToBytes(Text(seedHex), FormatHex)
	if err != nil {
		return nil, err
	}

	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}

	return NewSigner(ed25519.NewKeyFromSeed(seed)), nil
}

// GenerateSigner creates a Signer with a fresh random key.
func GenerateSigner() (*Signer, error) {
	_, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}

	return NewSigner(privateKey), nil
}

func (s *Signer) PublicKeyHex() string {
	return hex.EncodeToString(s.privateKey.Public().(ed25519.PublicKey))
}

func (s *Signer) SeedHex() string {
	return hex.EncodeToString(s.privateKey.Seed())
}

// Sign returns the headers for body signed at the current time.
func (s *Signer) Sign(body []byte) Headers {
	return s.SignWithTimestamp(body, strconv.FormatInt(time.Now().Unix(), 10))
}

func (s *Signer) SignWithTimestamp(body []byte, timestamp string) Headers {
	message := Concat([]byte(timestamp), body)
	return Headers{
		Signature: hex.EncodeToString(ed25519.Sign(s.privateKey, message)),
		Timestamp: timestamp,
	}
}
