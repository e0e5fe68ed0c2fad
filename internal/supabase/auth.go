package supabase

import (
	"fmt"

	"github.com/supabase-community/gotrue-go/types"
)

// AuthClient is the session gate. Signup, login and logout are delegated to
// Supabase Auth; the shop name travels as user metadata on the identity.
type AuthClient struct {
	client *Client
}

func NewAuthClient(client *Client) *AuthClient {
	return &AuthClient{client: client}
}

func (a *AuthClient) SignUp(email, password, shopName string) error {
	_, err := a.client.Supabase.Auth.Signup(types.SignupRequest{
		Email:    email,
		Password: password,
		Data: map[string]interface{}{
			"shop_name": shopName,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to sign up: %w", err)
	}
	return nil
}

func (a *AuthClient) SignIn(email, password string) (*types.Session, error) {
	session, err := a.client.Supabase.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, fmt.Errorf("failed to sign in: %w", err)
	}
	return &session, nil
}

func (a *AuthClient) SignOut(accessToken string) error {
	if err := a.client.Supabase.Auth.WithToken(accessToken).Logout(); err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}
	return nil
}

// ShopName pulls the shop_name metadata off a session user, falling back to
// empty when unset.
func ShopName(session *types.Session) string {
	if session == nil {
		return ""
	}
	if name, ok := session.User.UserMetadata["shop_name"].(string); ok {
		return name
	}
	return ""
}
