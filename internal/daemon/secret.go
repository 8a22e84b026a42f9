package daemon

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/authcore/authcore/internal/config"
	"github.com/authcore/authcore/internal/db/controller/setting"
	"github.com/authcore/authcore/internal/uniuri"
)

// SigningSecretSetting names the settings row holding the generated signing secret.
const SigningSecretSetting = "session_signing_secret"

// signingSecret returns the configured secret, or the one stored in the
// settings table. The first instance to start without either generates it.
func signingSecret(ctx context.Context, cfg *config.Config, db *gorm.DB) ([]byte, error) {
	if cfg.Session.Secret != "" {
		return []byte(cfg.Session.Secret), nil
	}

	s, err := setting.GetOrCreate(ctx, db, SigningSecretSetting, func() ([]byte, error) {
		log.Info().Msg("no session secret configured, generating one")
		return []byte(uniuri.NewLen(uniuri.SecretLen)), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load session signing secret: %w", err)
	}

	return s.Value, nil
}
