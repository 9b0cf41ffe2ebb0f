package api

import (
	"context"
	"hytale-list/internal/config"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

type HCaptchaClient struct {
	secret    string
	verifyURL string
	client    *fasthttp.Client
	logger    zerolog.Logger
}

func NewHCaptchaClient(cfg *config.Config, logger zerolog.Logger) *HCaptchaClient {
	return &HCaptchaClient{
		secret:    cfg.HCaptchaSecret,
		verifyURL: cfg.HCaptchaVerifyURL,
		client:    newHTTPClient(),
		logger:    logger,
	}
}

type siteverifyResponse struct {
	Success    bool     `json:"success"`
	Hostname   string   `json:"hostname"`
	ErrorCodes []string `json:"error-codes"`
}

// Check reports whether the provider accepted token. The error is non-nil
// only when the provider could not be asked or answered garbage.
func (c *HCaptchaClient) Check(ctx context.Context, token, remoteIP string) (bool, error) {
	if token == "" {
		return false, nil
	}

	args := fasthttp.AcquireArgs()
	defer fasthttp.ReleaseArgs(args)
	args.Set("secret", c.secret)
	args.Set("response", token)
	if remoteIP != "" {
		args.Set("remoteip", remoteIP)
	}

	result, err := doRequest[siteverifyResponse](ctx, c.client, request{
		method:      fasthttp.MethodPost,
		url:         c.verifyURL,
		contentType: "application/x-www-form-urlencoded",
		body:        append([]byte(nil), args.QueryString()...),
	})
	if err != nil {
		c.logger.Warn().Err(err).Msg("captcha verification request failed")
		return false, err
	}

	if !result.Success {
		c.logger.Debug().Strs("error_codes", result.ErrorCodes).Msg("captcha rejected")
	}
	return result.Success, nil
}

// Verify is Check failing closed: any provider problem counts as a reject.
func (c *HCaptchaClient) Verify(ctx context.Context, token, remoteIP string) bool {
	ok, err := c.Check(ctx, token, remoteIP)
	return err == nil && ok
}
