package mal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/PizzaHomicide/listfill/internal/domain"
	"github.com/PizzaHomicide/listfill/internal/log"
	"github.com/PizzaHomicide/listfill/internal/version"
	"github.com/go-resty/resty/v2"
)

const (
	DefaultBaseURL = "https://myanimelist.net"
	addPath        = "/ownlist/{type}/add.json"

	// alreadyInListMessage is what the site answers, sometimes without a 409, when the entry exists
	alreadyInListMessage = "already in your list"
)

// Credentials authorise requests on behalf of a logged in browser session
type Credentials struct {
	CSRFToken string
	// Cookies is a raw Cookie header, e.g. "MALSESSIONID=abc; is_logged_in=1"
	Cookies string
}

// Client adds entries to the user's anime and manga lists
type Client struct {
	http        *resty.Client
	credentials Credentials
	defaults    domain.ListDefaults
}

var _ domain.ListSubmitter = (*Client)(nil)

// NewClient creates a client for the site at baseURL.  Credentials are not checked here, see CheckCredentials.
func NewClient(baseURL string, credentials Credentials, defaults domain.ListDefaults) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	client := resty.New().
		SetLogger(log.RestyLogger{}).
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Requested-With", "XMLHttpRequest").
		SetHeader("User-Agent", version.UserAgent())

	// Headers copied out of browser dev tools often end in a stray separator
	if raw := strings.Trim(credentials.Cookies, "; "); raw != "" {
		cookies, err := http.ParseCookie(raw)
		if err != nil {
			return nil, fmt.Errorf("unable to parse session cookies: %w", err)
		}
		client.SetCookies(cookies)
	}

	client.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		log.Trace("MAL response",
			"method", resp.Request.Method,
			"url", resp.Request.URL,
			"status", resp.StatusCode(),
			"took", resp.Time())
		return nil
	})

	return &Client{
		http:        client,
		credentials: credentials,
		defaults:    defaults,
	}, nil
}

// CheckCredentials fails when there is no CSRF token.  Missing cookies are only warned about since the site
// answers those requests itself.
func (c *Client) CheckCredentials() error {
	if strings.TrimSpace(c.credentials.CSRFToken) == "" {
		log.Error("MAL client CSRF token is empty")
		return domain.ErrMissingToken
	}
	if c.credentials.Cookies == "" {
		log.Warn("No session cookies configured, submissions will most likely be rejected")
	}
	return nil
}

// Submit posts a single add request for the target
func (c *Client) Submit(ctx context.Context, target domain.Target) domain.SubmitResult {
	payload, err := domain.NewPayload(target, c.defaults, c.credentials.CSRFToken)
	if err != nil {
		return domain.SubmitResult{Outcome: domain.OutcomeFailed, Message: err.Error(), Err: err}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("type", string(target.Type)).
		SetBody(payload).
		Post(addPath)
	if err != nil {
		log.Debug("Submission failed before a response", "target", target.String(), "error", err)
		return domain.SubmitResult{
			Outcome: domain.OutcomeFailed,
			Message: fmt.Sprintf("Failed (Error: %v)", err),
			Err:     domain.NetworkError{Err: err},
		}
	}

	result := Classify(resp.StatusCode(), resp.Body())
	log.Debug("Submission classified",
		"target", target.String(),
		"status", result.StatusCode,
		"outcome", result.Outcome,
		"message", result.Message)
	return result
}

// Classify maps a response of the add endpoint onto an outcome:
// 2xx is a success, 409 or an "already in your list" message is a duplicate, 400 is an unknown id and
// anything else is a plain failure.
func Classify(statusCode int, body []byte) domain.SubmitResult {
	if statusCode >= 200 && statusCode < 300 {
		return domain.SubmitResult{Outcome: domain.OutcomeSuccess, StatusCode: statusCode}
	}

	message := errorMessage(body)
	if message == "" {
		message = fmt.Sprintf("Failed (%d)", statusCode)
	}

	result := domain.SubmitResult{
		StatusCode: statusCode,
		Message:    message,
		Err:        domain.StatusError{StatusCode: statusCode, Message: message},
	}

	switch {
	case statusCode == http.StatusConflict || strings.Contains(strings.ToLower(message), alreadyInListMessage):
		result.Outcome = domain.OutcomeAlreadyExists
	case statusCode == http.StatusBadRequest:
		result.Outcome = domain.OutcomeNotFound
	default:
		result.Outcome = domain.OutcomeFailed
	}
	return result
}

// errorMessage extracts errors[0].message from an error body, or "" if the body has no such shape
func errorMessage(body []byte) string {
	var errBody struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &errBody); err != nil || len(errBody.Errors) == 0 {
		return ""
	}
	return strings.TrimSpace(errBody.Errors[0].Message)
}
