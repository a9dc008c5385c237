// Package client is a Go client for the ReGen Insight REST API. Every call
// performs exactly one HTTP round trip; transport failures are wrapped in
// errs.ErrNetwork, API failures carry the server's error message.
package client

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"regen-insight/server/internal/errs"
	"regen-insight/server/internal/model"
	"regen-insight/server/internal/service"
)

// Client talks to one ReGen Insight server. Not safe for concurrent token
// mutation; share one Client per principal.
type Client struct {
	http         *resty.Client
	accessToken  string
	sessionToken string
}

func New(baseURL string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(15 * time.Second).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json"),
	}
}

// APIError is a non-success response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	req := c.http.R().SetContext(ctx)
	if c.accessToken != "" {
		req.SetHeader("Authorization", "Bearer "+c.accessToken)
	}
	if body != nil {
		req.SetBody(body)
	}

	var env envelope
	if out != nil {
		req.SetResult(out)
	}
	req.SetError(&env)

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrNetwork, err)
	}
	if resp.IsError() {
		msg := env.Error
		if msg == "" {
			msg = resp.Status()
		}
		return &APIError{Status: resp.StatusCode(), Message: msg}
	}
	return nil
}

type loginResponse struct {
	User         model.UserProfile  `json:"user"`
	Admin        model.AdminProfile `json:"admin"`
	AccessToken  string             `json:"accessToken"`
	SessionToken string             `json:"sessionToken"`
}

// Signup registers a user and signs the client in.
func (c *Client) Signup(ctx context.Context, name, email, password string, region int) (*model.UserProfile, error) {
	var res loginResponse
	err := c.do(ctx, resty.MethodPost, "/auth/signup", map[string]any{
		"name": name, "email": email, "password": password, "region": region,
	}, &res)
	if err != nil {
		return nil, err
	}
	c.accessToken = res.AccessToken
	c.sessionToken = res.SessionToken
	return &res.User, nil
}

// Login signs in a user.
func (c *Client) Login(ctx context.Context, email, password string) (*model.UserProfile, error) {
	var res loginResponse
	err := c.do(ctx, resty.MethodPost, "/auth/login", map[string]any{
		"email": email, "password": password,
	}, &res)
	if err != nil {
		return nil, err
	}
	c.accessToken = res.AccessToken
	c.sessionToken = res.SessionToken
	return &res.User, nil
}

// AdminLogin signs in an admin.
func (c *Client) AdminLogin(ctx context.Context, email, password string) (*model.AdminProfile, error) {
	var res loginResponse
	err := c.do(ctx, resty.MethodPost, "/admin/auth/login", map[string]any{
		"email": email, "password": password,
	}, &res)
	if err != nil {
		return nil, err
	}
	c.accessToken = res.AccessToken
	c.sessionToken = res.SessionToken
	return &res.Admin, nil
}

// Logout destroys the server-side session and clears the client tokens.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, resty.MethodPost, "/auth/logout", map[string]any{
		"sessionToken": c.sessionToken,
	}, nil)
	c.accessToken = ""
	c.sessionToken = ""
	return err
}

// Me returns the signed-in user's profile.
func (c *Client) Me(ctx context.Context) (*model.UserProfile, error) {
	var res struct {
		User model.UserProfile `json:"user"`
	}
	if err := c.do(ctx, resty.MethodGet, "/auth/me", nil, &res); err != nil {
		return nil, err
	}
	return &res.User, nil
}

// SwitchRegion changes the county the user is browsing.
func (c *Client) SwitchRegion(ctx context.Context, region int) (*model.UserProfile, error) {
	var res struct {
		User model.UserProfile `json:"user"`
	}
	if err := c.do(ctx, resty.MethodPost, "/auth/region", map[string]any{"region": region}, &res); err != nil {
		return nil, err
	}
	return &res.User, nil
}

// Counties returns the 47-county reference list.
func (c *Client) Counties(ctx context.Context) ([]struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}, error) {
	var res struct {
		Counties []struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"counties"`
	}
	if err := c.do(ctx, resty.MethodGet, "/counties", nil, &res); err != nil {
		return nil, err
	}
	return res.Counties, nil
}

// CreateSubAdmin creates a county sub-admin (chief only). The returned
// password is shown exactly once.
func (c *Client) CreateSubAdmin(ctx context.Context, name, email string, countyID int) (*model.AdminProfile, string, error) {
	var res struct {
		Admin    model.AdminProfile `json:"admin"`
		Password string             `json:"password"`
	}
	err := c.do(ctx, resty.MethodPost, "/admin/subadmins", map[string]any{
		"name": name, "email": email, "countyId": countyID,
	}, &res)
	if err != nil {
		return nil, "", err
	}
	return &res.Admin, res.Password, nil
}

// SubAdmins lists every sub-admin (chief only).
func (c *Client) SubAdmins(ctx context.Context) ([]model.AdminProfile, error) {
	var res struct {
		SubAdmins []model.AdminProfile `json:"subAdmins"`
	}
	if err := c.do(ctx, resty.MethodGet, "/admin/subadmins", nil, &res); err != nil {
		return nil, err
	}
	return res.SubAdmins, nil
}

// DeleteSubAdmin removes a sub-admin (chief only).
func (c *Client) DeleteSubAdmin(ctx context.Context, adminID string) error {
	return c.do(ctx, resty.MethodDelete, "/admin/subadmins/"+adminID, nil, nil)
}

// Directory lists the admin's valid message recipients.
func (c *Client) Directory(ctx context.Context) ([]model.DirectoryEntry, error) {
	var res struct {
		Directory []model.DirectoryEntry `json:"directory"`
	}
	if err := c.do(ctx, resty.MethodGet, "/admin/directory", nil, &res); err != nil {
		return nil, err
	}
	return res.Directory, nil
}

// SendMessage sends an admin message, optionally with an attachment.
func (c *Client) SendMessage(ctx context.Context, recipientID, content string, attachment *model.Attachment) (*model.Message, error) {
	var res struct {
		Message model.Message `json:"message"`
	}
	err := c.do(ctx, resty.MethodPost, "/admin/messages", map[string]any{
		"recipientId": recipientID, "content": content, "sharedContent": attachment,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res.Message, nil
}

// Messages returns the admin's inbox, newest first.
func (c *Client) Messages(ctx context.Context) ([]model.Message, error) {
	var res struct {
		Messages []model.Message `json:"messages"`
	}
	if err := c.do(ctx, resty.MethodGet, "/admin/messages", nil, &res); err != nil {
		return nil, err
	}
	return res.Messages, nil
}

// Notifications returns the admin's notifications and unread count.
func (c *Client) Notifications(ctx context.Context) (*service.Inbox, error) {
	var res service.Inbox
	if err := c.do(ctx, resty.MethodGet, "/admin/notifications", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// SubmitTicket files a support ticket for the signed-in user.
func (c *Client) SubmitTicket(ctx context.Context, subject, message, ticketType string) (*model.Ticket, error) {
	var res struct {
		Ticket model.Ticket `json:"ticket"`
	}
	err := c.do(ctx, resty.MethodPost, "/tickets", map[string]any{
		"subject": subject, "message": message, "type": ticketType,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res.Ticket, nil
}

// Tickets returns the signed-in user's tickets.
func (c *Client) Tickets(ctx context.Context) ([]model.Ticket, error) {
	var res struct {
		Tickets []model.Ticket `json:"tickets"`
	}
	if err := c.do(ctx, resty.MethodGet, "/tickets", nil, &res); err != nil {
		return nil, err
	}
	return res.Tickets, nil
}

// CreateUpload records an image upload.
func (c *Client) CreateUpload(ctx context.Context, countyID int, location, comment, objectKey string) (*model.Upload, error) {
	var res struct {
		Upload model.Upload `json:"upload"`
	}
	err := c.do(ctx, resty.MethodPost, "/uploads", map[string]any{
		"countyId": countyID, "location": location, "comment": comment, "objectKey": objectKey,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res.Upload, nil
}

// Uploads returns a county's gallery, newest first.
func (c *Client) Uploads(ctx context.Context, countyID int) ([]model.Upload, error) {
	var res struct {
		Uploads []model.Upload `json:"uploads"`
	}
	path := fmt.Sprintf("/counties/%d/uploads", countyID)
	if err := c.do(ctx, resty.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	return res.Uploads, nil
}

// ToggleLike flips the signed-in user's like on an upload.
func (c *Client) ToggleLike(ctx context.Context, uploadID string) (liked bool, likes int, err error) {
	var res struct {
		Liked bool `json:"liked"`
		Likes int  `json:"likes"`
	}
	if err := c.do(ctx, resty.MethodPost, "/uploads/"+uploadID+"/like", nil, &res); err != nil {
		return false, 0, err
	}
	return res.Liked, res.Likes, nil
}
