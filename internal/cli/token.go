package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Shivanand-hulikatti/festival-events/internal/auth"
	"github.com/Shivanand-hulikatti/festival-events/internal/config"
	"github.com/Shivanand-hulikatti/festival-events/internal/model"
)

// TokenOptions holds flags for the token command.
type TokenOptions struct {
	UserID          string
	Email           string
	Role            string
	ParticipantType string
	TTL             time.Duration
}

// NewTokenCommand creates a development helper that signs a bearer token
// with JWT_SECRET.
func NewTokenCommand() *cobra.Command {
	opts := &TokenOptions{}

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a bearer token for local testing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			signed, err := signToken(cfg.JWTSecret, opts)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), signed)
			return err
		},
	}

	cmd.Flags().StringVar(&opts.UserID, "user", "", "subject user id (required)")
	cmd.Flags().StringVar(&opts.Email, "email", "", "email claim")
	cmd.Flags().StringVar(&opts.Role, "role", string(model.RoleParticipant), "Participant|Organizer|Admin")
	cmd.Flags().StringVar(&opts.ParticipantType, "participant-type", string(model.ParticipantIIIT), "IIIT|Non-IIIT")
	cmd.Flags().DurationVar(&opts.TTL, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func signToken(secret string, opts *TokenOptions) (string, error) {
	role := model.Role(opts.Role)
	if !role.Valid() {
		return "", fmt.Errorf("invalid role %q", opts.Role)
	}
	pt := model.ParticipantType(opts.ParticipantType)
	if pt != model.ParticipantIIIT && pt != model.ParticipantNonIIIT {
		return "", fmt.Errorf("invalid participant type %q", opts.ParticipantType)
	}
	if opts.TTL <= 0 {
		return "", fmt.Errorf("ttl must be positive, got %s", opts.TTL)
	}
	return auth.NewIssuer(secret, opts.TTL).Sign(auth.Identity{
		UserID:          opts.UserID,
		Email:           opts.Email,
		Role:            role,
		ParticipantType: pt,
	})
}
