package services

import (
	"context"
	"errors"
	"fmt"

	apple "github.com/Timothylock/go-signin-with-apple/apple"
	"google.golang.org/api/idtoken"
)

type GoogleServiceProvider interface {
	ValidateIdToken(ctx context.Context, idToken string, audience string) (*idtoken.Payload, error)
}

type GoogleService struct {
}

func (gs GoogleService) ValidateIdToken(ctx context.Context, idToken string, audience string) (*idtoken.Payload, error) {
	return idtoken.Validate(ctx, idToken, audience)
}

// AppleIdentity is what Sign in with Apple tells us about a user.
type AppleIdentity struct {
	AppleID string
	Email   string
}

type AppleServiceProvider interface {
	VerifyAuthorizationCode(ctx context.Context, code string) (*AppleIdentity, error)
}

type AppleService struct {
	TeamID   string
	KeyID    string
	ClientID string
	// KeyEnv names the variable holding the base64 encoded .p8 key.
	KeyEnv string
}

func (s AppleService) VerifyAuthorizationCode(ctx context.Context, code string) (*AppleIdentity, error) {
	key, err := DecodeBase64EnvPrivateKey(s.KeyEnv)
	if err != nil {
		return nil, err
	}
	secret, err := apple.GenerateClientSecret(key, s.TeamID, s.ClientID, s.KeyID)
	if err != nil {
		return nil, fmt.Errorf("generate apple client secret: %w", err)
	}

	var resp apple.ValidationResponse
	err = apple.New().VerifyAppToken(ctx, apple.AppValidationTokenRequest{
		ClientID:     s.ClientID,
		ClientSecret: secret,
		Code:         code,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("verify apple token: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("apple returned an error: %s - %s", resp.Error, resp.ErrorDescription)
	}

	unique, err := apple.GetUniqueID(resp.IDToken)
	if err != nil {
		return nil, fmt.Errorf("failed to get unique ID: %w", err)
	}
	if unique == "" {
		return nil, errors.New("apple token has no subject")
	}
	identity := &AppleIdentity{AppleID: unique}
	if claim, err := apple.GetClaims(resp.IDToken); err == nil {
		identity.Email, _ = (*claim)["email"].(string)
	}
	return identity, nil
}
