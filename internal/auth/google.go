package auth

import (
	"context"
	"fmt"
	"net/http"

	json "github.com/goccy/go-json"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const userinfoEndpoint = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleUser Google userinfo 响应
type GoogleUser struct {
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
}

// GoogleOAuth Google OAuth2 授权码流程
type GoogleOAuth struct {
	conf   *oauth2.Config
	states *stateStore
}

// NewGoogleOAuth 创建 Google OAuth 客户端
func NewGoogleOAuth(clientID, clientSecret, redirectURL string) *GoogleOAuth {
	return &GoogleOAuth{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		states: newStateStore(),
	}
}

// Enabled 是否已配置 Google 登录
func (g *GoogleOAuth) Enabled() bool {
	return g.conf.ClientID != "" && g.conf.ClientSecret != ""
}

// AuthURL 生成授权跳转地址，state 防 CSRF
func (g *GoogleOAuth) AuthURL() string {
	state := g.states.issue()
	return g.conf.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Callback 校验 state 并用授权码换取用户信息
func (g *GoogleOAuth) Callback(ctx context.Context, state, code string) (*GoogleUser, error) {
	if !g.states.consume(state) {
		return nil, fmt.Errorf("invalid oauth state")
	}

	token, err := g.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	client := g.conf.Client(ctx, token)
	resp, err := client.Get(userinfoEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo request failed with status %d", resp.StatusCode)
	}

	user := &GoogleUser{}
	if err := json.NewDecoder(resp.Body).Decode(user); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo: %w", err)
	}
	if user.Email == "" {
		return nil, fmt.Errorf("userinfo response missing email")
	}
	return user, nil
}
