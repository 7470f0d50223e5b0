package asgardeo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/hariram-suresh/loom-harmony/idp"
)

type scimName struct {
	FamilyName string `json:"familyName"`
	GivenName  string `json:"givenName"`
}

type scimEmail struct {
	Value   string `json:"value"`
	Primary bool   `json:"primary"`
}

type scimPhoneNumber struct {
	Value string `json:"value"`
	Type  string `json:"type"`
}

type userRequestBody struct {
	UserName     string            `json:"userName"`
	Email        string            `json:"email"`
	Emails       []scimEmail       `json:"emails"`
	PhoneNumbers []scimPhoneNumber `json:"phoneNumbers,omitempty"`
	Name         scimName          `json:"name"`
	Schema       interface{}       `json:"urn:scim:wso2:schema,omitempty"`
}

type userResponseBody struct {
	ID           string            `json:"id"`
	UserName     string            `json:"userName"`
	Emails       []string          `json:"emails"`
	PhoneNumbers []scimPhoneNumber `json:"phoneNumbers"`
	Name         scimName          `json:"name"`
}

func (b userResponseBody) toUserInfo() *idp.UserInfo {
	info := &idp.UserInfo{
		Id:        b.ID,
		FirstName: b.Name.GivenName,
		LastName:  b.Name.FamilyName,
	}
	if len(b.Emails) > 0 {
		info.Email = b.Emails[0]
	}
	if len(b.PhoneNumbers) > 0 {
		info.PhoneNumber = b.PhoneNumbers[0].Value
	}
	return info
}

func buildUserRequestBody(user *idp.User, askPassword bool) userRequestBody {
	body := userRequestBody{
		UserName: fmt.Sprintf("DEFAULT/%s", user.Email),
		Email:    user.Email,
		Emails: []scimEmail{
			{Value: user.Email, Primary: true},
		},
		Name: scimName{
			GivenName:  user.FirstName,
			FamilyName: user.LastName,
		},
	}
	if user.PhoneNumber != "" {
		body.PhoneNumbers = []scimPhoneNumber{
			{Value: user.PhoneNumber, Type: "mobile"},
		}
	}
	if askPassword {
		body.Schema = map[string]interface{}{"askPassword": true}
	}
	return body
}

// CreateUser provisions a marketplace account. Asgardeo sends the user
// an invite to set their own password.
func (a *Client) CreateUser(ctx context.Context, user *idp.User) (*idp.UserInfo, error) {
	url := fmt.Sprintf("%s/scim2/Users", a.BaseURL)

	payload, err := json.Marshal(buildUserRequestBody(user, true))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/scim+json")

	res, err := a.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("failed to create user, status code: %d", res.StatusCode)
	}

	var response userResponseBody
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return response.toUserInfo(), nil
}

// GetUser fetches an account by its IdP identifier
func (a *Client) GetUser(ctx context.Context, userID string) (*idp.UserInfo, error) {
	url := fmt.Sprintf("%s/scim2/Users/%s", a.BaseURL, userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	res, err := a.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get user, status code: %d", res.StatusCode)
	}

	var response userResponseBody
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return response.toUserInfo(), nil
}

// UpdateUser replaces an account's attributes
func (a *Client) UpdateUser(ctx context.Context, userID string, user *idp.User) (*idp.UserInfo, error) {
	url := fmt.Sprintf("%s/scim2/Users/%s", a.BaseURL, userID)

	payload, err := json.Marshal(buildUserRequestBody(user, false))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/scim+json")

	res, err := a.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to update user, status code: %d", res.StatusCode)
	}

	var response userResponseBody
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return response.toUserInfo(), nil
}

// DeleteUser removes an account from the identity provider
func (a *Client) DeleteUser(ctx context.Context, userID string) error {
	url := fmt.Sprintf("%s/scim2/Users/%s", a.BaseURL, userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	res, err := a.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusNoContent {
		return fmt.Errorf("failed to delete user, status code: %d", res.StatusCode)
	}

	return nil
}
