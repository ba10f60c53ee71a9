package api

import (
	"context"
	"encoding/json"
	"net/http"

	"catalogadmin/model"
)

// LoginResult is the part of the login response the toolkit reads. Raw is the
// whole response, stored verbatim as the session blob.
type LoginResult struct {
	Token   string          `json:"token"`
	User    model.User      `json:"user"`
	Message string          `json:"message,omitempty"`
	Raw     json.RawMessage `json:"-"`
}

// Login posts credentials to /auth/login without any stored token.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	raw, err := c.Do(WithoutToken(ctx), http.MethodPost, "/auth/login", body)
	if err != nil {
		return LoginResult{}, err
	}
	var res LoginResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return LoginResult{}, err
	}
	if res.Token == "" {
		// some deployments wrap the login body in data
		var wrapped struct {
			Data LoginResult `json:"data"`
		}
		if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Data.Token != "" {
			res = wrapped.Data
		}
	}
	res.Raw = raw
	return res, nil
}

// VerifyEmail confirms an account with the emailed one-time code.
func (c *Client) VerifyEmail(ctx context.Context, email, otp string) (string, error) {
	body := map[string]string{"email": email, "otp": otp}
	raw, err := c.Do(WithoutToken(ctx), http.MethodPost, "/auth/verify-email", body)
	if err != nil {
		return "", err
	}
	return messageOf(raw), nil
}

func (c *Client) ResendOTP(ctx context.Context, email string) (string, error) {
	raw, err := c.Do(WithoutToken(ctx), http.MethodPost, "/auth/resend-otp", map[string]string{"email": email})
	if err != nil {
		return "", err
	}
	return messageOf(raw), nil
}

func messageOf(raw []byte) string {
	var m struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(raw, &m)
	return m.Message
}
