package testutil

import (
	"testing"

	"github.com/questx-lab/interaction/pkg/discord"
)

// DefaultSeed is the Ed25519 seed used by tests unless another one is given.
const DefaultSeed = "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60"

func NewSigner(t *testing.T, seed ...string) *discord.Signer {
	t.Helper()

	s := DefaultSeed
	if len(seed) > 0 {
		s = seed[0]
	}

	signer, err := discord.NewSignerFromSeed(s)
	if err != nil {
		t.Fatalf("cannot create signer: %v", err)
	}

	return signer
}
