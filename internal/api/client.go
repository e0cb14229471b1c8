// Package api is the HTTP client for the Nama'a backend.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/dyike/NamaaGo/internal/config"
	"github.com/dyike/NamaaGo/internal/models"
)

const (
	registerPath         = "/api/register"
	providersPath        = "/api/accounts/providers"
	createIntentPath     = "/api/accounts/create-intent"
	chatSendPath         = "/api/chat/send"
	chatSessionsPath     = "/api/chat/sessions/{userId}"
	investmentAdvicePath = "/api/chat/investment-advice"
	dashboardPath        = "/api/insights/dashboard/{userId}"
	alternativesPath     = "/api/insights/alternatives/{category}"
)

// Backend is the set of calls the screens make. Client implements it.
type Backend interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
	ListProviders(ctx context.Context) ([]models.BankProvider, error)
	CreateIntent(ctx context.Context, req CreateIntentRequest) (*models.LinkIntent, error)
	SendChat(ctx context.Context, req ChatRequest) (string, error)
	Dashboard(ctx context.Context, userID string) (*models.DashboardData, error)
	Alternatives(ctx context.Context, category, userID string) ([]models.Alternative, error)
	ChatSessions(ctx context.Context, userID string) ([]models.ChatSessionSummary, error)
	InvestmentAdvice(ctx context.Context, req InvestmentRequest) (*models.InvestmentAdvice, error)
}

var _ Backend = (*Client)(nil)

// Client wraps a resty client bound to the backend base URL.
type Client struct {
	client *resty.Client
	log    logrus.FieldLogger
}

// NewClient creates a backend client from the application config.
func NewClient(cfg *config.Config, log logrus.FieldLogger) *Client {
	client := resty.New()
	client.SetBaseURL(cfg.APIBaseURL)
	client.SetHeader("Accept", "application/json")
	if cfg.RequestTimeout > 0 {
		client.SetTimeout(cfg.RequestTimeout)
	}
	if l, ok := log.(resty.Logger); ok {
		client.SetLogger(l)
	}
	client.SetDebug(cfg.Debug)

	return &Client{
		client: client,
		log:    log,
	}
}

type RegisterRequest struct {
	CustomerUserID string `json:"customerUserId"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
}

type RegisterResponse struct {
	Success bool          `json:"success"`
	UserID  models.FlexID `json:"userId"`
	Message string        `json:"message"`
}

type CreateIntentRequest struct {
	CustomerUserID string `json:"customerUserId"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	RedirectURL    string `json:"redirectUrl"`
}

type ChatRequest struct {
	UserID    string `json:"userId"`
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

type InvestmentRequest struct {
	UserID           string               `json:"userId"`
	InvestmentAmount decimal.Decimal      `json:"investmentAmount"`
	RiskTolerance    models.RiskTolerance `json:"riskTolerance"`
}

// Register creates the backend user for a freshly generated customer id.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var out RegisterResponse
	if err := c.do(ctx, http.MethodPost, registerPath, nil, req, &out); err != nil {
		return nil, err
	}
	if !out.Success || out.UserID == "" {
		return nil, &Error{Status: http.StatusOK, Message: out.Message, Body: "registration not confirmed"}
	}
	return &out, nil
}

// ListProviders returns the full provider catalog, unfiltered.
func (c *Client) ListProviders(ctx context.Context) ([]models.BankProvider, error) {
	var out struct {
		Providers []models.BankProvider `json:"providers"`
	}
	if err := c.do(ctx, http.MethodGet, providersPath, nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Providers, nil
}

// CreateIntent asks the backend for a linking intent. The body is opaque;
// any JSON object, even an empty one, counts as success.
func (c *Client) CreateIntent(ctx context.Context, req CreateIntentRequest) (*models.LinkIntent, error) {
	var raw map[string]any
	if err := c.do(ctx, http.MethodPost, createIntentPath, nil, req, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("create intent: empty response")
	}

	intent := &models.LinkIntent{Raw: raw}
	intent.IntentID = firstString(raw, "intentId", "intent_id", "id")
	intent.ConnectURL = firstString(raw, "connectUrl", "connect_url", "redirectUrl")
	return intent, nil
}

// SendChat posts one user turn and returns the assistant's reply text.
func (c *Client) SendChat(ctx context.Context, req ChatRequest) (string, error) {
	var out struct {
		Response *string `json:"response"`
	}
	if err := c.do(ctx, http.MethodPost, chatSendPath, nil, req, &out); err != nil {
		return "", err
	}
	if out.Response == nil {
		return "", fmt.Errorf("chat send: response field missing")
	}
	return *out.Response, nil
}

// Dashboard fetches the aggregated snapshot for a user.
func (c *Client) Dashboard(ctx context.Context, userID string) (*models.DashboardData, error) {
	var out models.DashboardData
	params := map[string]string{"userId": userID}
	if err := c.do(ctx, http.MethodGet, dashboardPath, params, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Alternatives fetches cheaper options for one spending category.
func (c *Client) Alternatives(ctx context.Context, category, userID string) ([]models.Alternative, error) {
	var out struct {
		Alternatives []models.Alternative `json:"alternatives"`
	}
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("category", category).
		SetQueryParam("user_id", userID).
		Get(alternativesPath)
	if err := c.decode(resp, err, alternativesPath, &out); err != nil {
		return nil, err
	}
	return out.Alternatives, nil
}

// ChatSessions lists the conversations the backend kept for a user.
func (c *Client) ChatSessions(ctx context.Context, userID string) ([]models.ChatSessionSummary, error) {
	var out struct {
		Sessions []models.ChatSessionSummary `json:"sessions"`
	}
	params := map[string]string{"userId": userID}
	if err := c.do(ctx, http.MethodGet, chatSessionsPath, params, nil, &out); err != nil {
		return nil, err
	}
	return out.Sessions, nil
}

// InvestmentAdvice asks for advice on investing an amount at a risk level.
func (c *Client) InvestmentAdvice(ctx context.Context, req InvestmentRequest) (*models.InvestmentAdvice, error) {
	var out models.InvestmentAdvice
	if err := c.do(ctx, http.MethodPost, investmentAdvicePath, nil, req, &out); err != nil {
		return nil, err
	}
	if out.Advice == "" {
		return nil, fmt.Errorf("investment advice: empty response")
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, pathParams map[string]string, body, result any) error {
	req := c.client.R().SetContext(ctx)
	if pathParams != nil {
		req.SetPathParams(pathParams)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	resp, err := req.Execute(method, path)
	return c.decode(resp, err, path, result)
}

func (c *Client) decode(resp *resty.Response, err error, path string, result any) error {
	if err != nil {
		c.log.WithError(err).WithField("path", path).Debug("request failed")
		return fmt.Errorf("request %s: %w", path, err)
	}

	if resp.IsError() {
		apiErr := &Error{Status: resp.StatusCode(), Body: resp.String()}
		var body errorBody
		if json.Unmarshal(resp.Body(), &body) == nil {
			apiErr.Message = body.Error
			if apiErr.Message == "" {
				apiErr.Message = body.Message
			}
		}
		c.log.WithFields(logrus.Fields{
			"path":   path,
			"status": resp.StatusCode(),
		}).Debug("backend returned error")
		return apiErr
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), result); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", path, err)
	}
	return nil
}

func firstString(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := raw[key]; ok {
			switch s := v.(type) {
			case string:
				return s
			case float64:
				return decimal.NewFromFloat(s).String()
			}
		}
	}
	return ""
}
