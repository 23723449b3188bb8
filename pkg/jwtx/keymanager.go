package jwtx

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/aussiebroadwan/shelf/pkg/cryptox"
)

// KeyManager owns the signing keys of one process and the KeySet that
// verifies them. Signing picks a key at random.
type KeyManager struct {
	keys     *KeySet
	verifier *Verifier

	mu      sync.RWMutex
	signers []Signer
}

// KeyManagerOptions configures a KeyManager.
type KeyManagerOptions struct {
	// Issuer is the iss claim tokens are signed with and verified against.
	Issuer string

	// NumKeys is how many ephemeral keys to generate, 1 to 10, default 3.
	NumKeys int

	// Leeway allows small clock skew when validating exp and nbf.
	Leeway time.Duration
}

// NewKeyManager creates a KeyManager holding the given signers plus
// opts.NumKeys freshly generated ephemeral keys when signers is empty.
// Ephemeral keys never leave memory, so a restart logs everyone out.
func NewKeyManager(opts KeyManagerOptions, signers ...Signer) (*KeyManager, error) {
	if opts.Issuer == "" {
		return nil, fmt.Errorf("jwtx: Issuer is required")
	}

	if len(signers) == 0 {
		n := min(max(opts.NumKeys, 1), 10)
		if opts.NumKeys <= 0 {
			n = 3
		}

		for i := range n {
			s, err := GenerateSigner()
			if err != nil {
				return nil, fmt.Errorf("jwtx: failed to generate signer %d: %w", i+1, err)
			}
			signers = append(signers, s)
		}
	}

	keys := NewKeySet()
	for _, s := range signers {
		keys.AddSigner(s)
	}

	return &KeyManager{
		keys:     keys,
		verifier: NewVerifier(keys, opts.Issuer, opts.Leeway),
		signers:  signers,
	}, nil
}

// GenerateSigner creates an Ed25519 signer with a random kid.
func GenerateSigner() (*EdDSASigner, error) {
	pemKey, err := cryptox.GenerateEd25519Key()
	if err != nil {
		return nil, err
	}
	return NewSignerEdDSA(NewKeyID(), pemKey)
}

// NewKeyID returns a random key identifier.
func NewKeyID() string {
	return "shelf-" + cryptox.MustGenerateToken(cryptox.TokenSize128)
}

// Signer returns a randomly selected signer.
func (km *KeyManager) Signer() Signer {
	km.mu.RLock()
	defer km.mu.RUnlock()

	if len(km.signers) == 1 {
		return km.signers[0]
	}
	return km.signers[rand.IntN(len(km.signers))]
}

// Verifier returns the verifier over every key this manager has held.
func (km *KeyManager) Verifier() *Verifier {
	return km.verifier
}

// IsReady reports whether at least one key is loaded.
func (km *KeyManager) IsReady() bool {
	return km.keys.Len() > 0
}
