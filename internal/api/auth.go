package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"frostmart/pkg/domain"
)

var mobilePattern = regexp.MustCompile(`^[0-9]{10}$`)

// ValidateMobile enforces the 10-digit mobile rule before any network call.
func ValidateMobile(mobile string) error {
	if !mobilePattern.MatchString(strings.TrimSpace(mobile)) {
		return fmt.Errorf("%w: mobile number must be exactly 10 digits", ErrValidation)
	}
	return nil
}

// Login exchanges credentials for a bearer token. The push token identifies
// this device for server-side notification dispatch and may be empty.
func (c *Client) Login(ctx context.Context, mobile, password, pushToken string) (string, error) {
	if strings.TrimSpace(mobile) == "" || strings.TrimSpace(password) == "" {
		return "", fmt.Errorf("%w: please fill all fields", ErrValidation)
	}
	if err := ValidateMobile(mobile); err != nil {
		return "", err
	}
	payload := map[string]string{
		"mobile":    strings.TrimSpace(mobile),
		"password":  password,
		"pushToken": pushToken,
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.doPublicJSON(ctx, http.MethodPost, "/api/auth/login", payload, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("login response carried no token")
	}
	return resp.Token, nil
}

// RequestAccess submits a pending-account request awaiting admin approval.
func (c *Client) RequestAccess(ctx context.Context, name, mobile, password string) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(mobile) == "" || strings.TrimSpace(password) == "" {
		return fmt.Errorf("%w: please fill all fields", ErrValidation)
	}
	if err := ValidateMobile(mobile); err != nil {
		return err
	}
	payload := map[string]string{
		"name":     strings.TrimSpace(name),
		"mobile":   strings.TrimSpace(mobile),
		"password": password,
	}
	return c.doPublicJSON(ctx, http.MethodPost, "/api/auth/request-access", payload, nil)
}

// Users lists every account, approved or pending. Admin only.
func (c *Client) Users(ctx context.Context) ([]domain.User, error) {
	var resp struct {
		Users []domain.User `json:"users"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/users", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

// ChatUsers lists accounts with last-activity and unread metadata. Admin only.
func (c *Client) ChatUsers(ctx context.Context) ([]domain.User, error) {
	var resp struct {
		Users []domain.User `json:"users"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/users-chat", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

// ApproveUser unlocks a requested account for login.
func (c *Client) ApproveUser(ctx context.Context, userID string) error {
	path := "/api/auth/approve-user/" + url.PathEscape(userID)
	return c.doJSON(ctx, http.MethodPut, path, nil, struct{}{}, nil)
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	path := "/api/auth/users/" + url.PathEscape(userID)
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil, nil)
}

// UserDetail returns the calling user's own profile.
func (c *Client) UserDetail(ctx context.Context) (domain.User, error) {
	var resp struct {
		User domain.User `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/user-detail", nil, nil, &resp); err != nil {
		return domain.User{}, err
	}
	return resp.User, nil
}
