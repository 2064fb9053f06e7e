package storefront

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/errors"
)

// AuthClient talks to the user service that owns accounts. Credentials are
// passed through; nothing is hashed or checked here.
type AuthClient struct {
	httpClient *http.Client
	baseURL    string
	project    string
	session    SessionStore
}

func NewAuthClient(baseURL, project string, timeout time.Duration, session SessionStore) *AuthClient {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &AuthClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		project:    project,
		session:    session,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Project  string `json:"project"`
}

type loginResponse struct {
	Success    bool   `json:"success"`
	Username   string `json:"username"`
	ProjectURL string `json:"project_url"`
	Error      string `json:"error"`
}

// Login signs the shopper in, keeps the username in the session and returns
// where to go next ("/" when the service gives no project URL).
func (a *AuthClient) Login(ctx context.Context, email, password string) (string, error) {
	var resp loginResponse
	err := doJSON(ctx, a.httpClient, http.MethodPost, a.baseURL+"/api/users/login",
		loginRequest{Email: email, Password: password, Project: a.project}, &resp)
	if err != nil {
		return "", err
	}
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "An error occurred."
		}
		return "", &APIError{Status: http.StatusOK, Message: msg}
	}
	a.session.Set(SessionKeyUsername, resp.Username)
	if resp.ProjectURL == "" {
		return "/", nil
	}
	return resp.ProjectURL, nil
}

// RegisterRequest is the sign-up form.
type RegisterRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerPayload struct {
	RegisterRequest
	Role     string   `json:"role"`
	Projects []string `json:"projects"`
}

type registerResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Register creates an account for this project. On success the session is
// cleared and the service message is returned.
func (a *AuthClient) Register(ctx context.Context, req RegisterRequest) (string, error) {
	if req.Name == "" || req.Username == "" || req.Email == "" || req.Password == "" {
		return "", errors.New("name, username, email and password are required")
	}
	var resp registerResponse
	err := doJSON(ctx, a.httpClient, http.MethodPost, a.baseURL+"/api/users/register",
		registerPayload{RegisterRequest: req, Role: "user", Projects: []string{a.project}}, &resp)
	if err != nil {
		return "", err
	}
	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = "Registration failed. Please try again."
		}
		return "", &APIError{Status: http.StatusOK, Message: msg}
	}
	a.session.Clear()
	if resp.Message == "" {
		return "Registration successful!", nil
	}
	return resp.Message, nil
}

// Logout forgets the shopper.
func (a *AuthClient) Logout() {
	a.session.Delete(SessionKeyUsername)
}
