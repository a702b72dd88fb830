package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"procurement/internal/models"
	"procurement/internal/session"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token  string    `json:"token"`
	UserId models.ID `json:"user_id"`
	Email  string    `json:"email"`
}

// Login authenticates against the API with a bounded timeout. The session is
// written only after a successful response and before Login returns.
func (c *Client) Login(ctx context.Context, email, password string) (models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, c.loginTimeout)
	defer cancel()

	var resp LoginResponse
	err := c.Request(ctx, http.MethodPost, "/login/", LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return models.User{}, fmt.Errorf("api.Client.Login: %w", err)
	}
	if len(resp.Token) == 0 {
		return models.User{}, fmt.Errorf("api.Client.Login: %w", &Error{Kind: KindFailed, Status: http.StatusOK, Message: "login response carries no token"})
	}

	user := models.User{Token: resp.Token, UserId: resp.UserId, Email: resp.Email}
	if len(user.Email) == 0 {
		user.Email = email
	}

	err = session.Save(ctx, c.store, user)
	if err != nil {
		// the login deadline may have cut the write short, leave no partial session behind
		if clearErr := session.Clear(context.WithoutCancel(ctx), c.store); clearErr != nil {
			c.log.Errorf("could not clear partial session: %s", clearErr)
		}
		return models.User{}, fmt.Errorf("api.Client.Login: %w", err)
	}
	return user, nil
}

func (c *Client) Logout(ctx context.Context) error {
	err := session.Clear(ctx, c.store)
	if err != nil {
		return fmt.Errorf("api.Client.Logout: %w", err)
	}
	return nil
}

func (c *Client) ResetPassword(ctx context.Context, email string) error {
	err := c.Request(ctx, http.MethodPost, "/reset-password/", map[string]string{"email": email}, nil)
	if err != nil {
		return fmt.Errorf("api.Client.ResetPassword: %w", err)
	}
	return nil
}

type ConfirmResetRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (c *Client) ConfirmPasswordReset(ctx context.Context, userId models.ID, req ConfirmResetRequest) error {
	path := fmt.Sprintf("/reset-password/%s/", url.PathEscape(userId.String()))
	err := c.Request(ctx, http.MethodPost, path, req, nil)
	if err != nil {
		return fmt.Errorf("api.Client.ConfirmPasswordReset: %w", err)
	}
	return nil
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ChangePassword ends the local session once the server accepted the new password.
func (c *Client) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	err := c.Request(ctx, http.MethodPost, "/change-password/", req, nil)
	if err != nil {
		return fmt.Errorf("api.Client.ChangePassword: %w", err)
	}

	err = session.Clear(ctx, c.store)
	if err != nil {
		return fmt.Errorf("api.Client.ChangePassword: %w", err)
	}
	return nil
}
