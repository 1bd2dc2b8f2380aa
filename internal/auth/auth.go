// Package auth provisions bearer tokens for manifests that need to
// authenticate before running jobs, grounded directly on the teacher's
// shared/auth.go OAuth2Tool (clientCredentialsFlow/passwordFlow).
package auth

import (
	"context"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// ClientCredentials obtains a bearer token via the OAuth2 client
// credentials grant, matching shared/auth.go's clientCredentialsFlow.
func ClientCredentials(ctx context.Context, clientID, clientSecret, tokenURL string, scopes []string) (string, error) {
	cfg := clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
		Scopes:       scopes,
	}
	token, err := cfg.Token(ctx)
	if err != nil {
		return "", err
	}
	return token.AccessToken, nil
}

// Password obtains a bearer token via the OAuth2 resource-owner
// password-credentials grant, matching shared/auth.go's passwordFlow.
func Password(ctx context.Context, clientID, clientSecret, tokenURL, username, password string, scopes []string) (string, error) {
	cfg := oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: tokenURL},
		Scopes:       scopes,
	}
	token, err := cfg.PasswordCredentialsToken(ctx, username, password)
	if err != nil {
		return "", err
	}
	return token.AccessToken, nil
}
