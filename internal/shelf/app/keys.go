package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/shelf/pkg/cryptox"
	"github.com/aussiebroadwan/shelf/pkg/jwtx"
)

// InitSessionKeys creates the KeyManager that signs session tokens.
//
// By default NumKeys Ed25519 keys are generated at start-up and kept only
// in memory, so every session ends when the process restarts. With
// SigningKeyFile set a single key is loaded from that file (created on
// first run) and sessions survive restarts.
func InitSessionKeys(cfg Config, logger *slog.Logger) (*jwtx.KeyManager, error) {
	opts := jwtx.KeyManagerOptions{
		Issuer:  cfg.Issuer,
		NumKeys: cfg.NumKeys,
	}

	if cfg.SigningKeyFile == "" {
		km, err := jwtx.NewKeyManager(opts)
		if err != nil {
			return nil, err
		}
		logger.Info("ephemeral signing keys generated", "count", min(max(cfg.NumKeys, 1), 10))
		return km, nil
	}

	pemKey, err := cryptox.LoadOrGenerateEd25519Key(cfg.SigningKeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load signing key: %w", err)
	}

	// The kid is derived from the key so tokens verify across restarts.
	kid := "shelf-" + cryptox.FingerprintToken(string(pemKey))[:16]
	signer, err := jwtx.NewSignerEdDSA(kid, pemKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse signing key: %w", err)
	}

	km, err := jwtx.NewKeyManager(opts, signer)
	if err != nil {
		return nil, err
	}
	logger.Info("signing key loaded", "path", cfg.SigningKeyFile, "kid", signer.KID())
	return km, nil
}
