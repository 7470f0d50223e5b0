package asgardeo

import (
	"context"
	"net/http"

	"golang.org/x/oauth2/clientcredentials"
)

// Client talks to an Asgardeo organization's SCIM2 API using the
// client-credentials grant.
type Client struct {
	BaseURL     string
	OAuthConfig *clientcredentials.Config
	Client      *http.Client
}

// NewClient creates an Asgardeo client for the given organization
func NewClient(baseURL string, clientID string, clientSecret string, scopes []string) *Client {
	oauthConfig := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     baseURL + "/oauth2/token",
		Scopes:       scopes,
	}

	return &Client{
		BaseURL:     baseURL,
		OAuthConfig: oauthConfig,
		Client:      oauthConfig.Client(context.Background()),
	}
}
