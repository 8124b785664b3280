package wechat

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/fabstash/backend/internal/config"
)

// Client exposes the WeChat mini-program login exchange.
type Client interface {
	Code2Session(ctx context.Context, code string) (*SessionResult, error)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
	appID      string
	appSecret  string
}

// NewClient builds a WeChat API client using the provided configuration values.
func NewClient(cfg config.WeChatConfig) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetTimeout(15 * time.Second)

	return &APIClient{
		httpClient: restyClient,
		appID:      cfg.AppID,
		appSecret:  cfg.AppSecret,
	}
}

// SessionResult mirrors the jscode2session response. WeChat returns errors
// in the same body, so ErrCode/ErrMsg are checked rather than the status.
type SessionResult struct {
	OpenID     string `json:"openid"`
	SessionKey string `json:"session_key"`
	UnionID    string `json:"unionid"`
	ErrCode    int    `json:"errcode"`
	ErrMsg     string `json:"errmsg"`
}

// Code2Session exchanges a login code for the user's openid and session key.
func (c *APIClient) Code2Session(ctx context.Context, code string) (*SessionResult, error) {
	result := new(SessionResult)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"appid":      c.appID,
			"secret":     c.appSecret,
			"js_code":    code,
			"grant_type": "authorization_code",
		}).
		SetResult(result).
		Get("/sns/jscode2session")
	if err != nil {
		return nil, fmt.Errorf("wechat code2session: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, fmt.Errorf("wechat api error: status=%d", resp.StatusCode())
	}

	if result.ErrCode != 0 {
		return nil, fmt.Errorf("wechat api error: code=%d, message=%s", result.ErrCode, result.ErrMsg)
	}

	return result, nil
}
