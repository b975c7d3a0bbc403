package feed

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	logger "github.com/sirupsen/logrus"
)

const (
	defaultRetryAttempts  = 3
	defaultRetryBaseDelay = 500 * time.Millisecond
)

// SentimentClient aggregates the fear/greed index with funding-rate and
// open-interest data into one raw snapshot. Partial upstream failures are
// tolerated: whatever arrived is returned and the analyzer clamps the rest.
type SentimentClient struct {
	fng     *resty.Client
	funding *resty.Client
}

func isRetryableResp(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}

	code := r.StatusCode()
	if code >= 500 && code <= 599 {
		return true
	}
	if code == 429 || code == 408 {
		return true
	}
	return false
}

func newRestyClient(baseURL string, cfg Config) *resty.Client {
	return resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.HTTPTimeout).
		SetRetryCount(defaultRetryAttempts - 1).
		SetRetryWaitTime(defaultRetryBaseDelay).
		AddRetryCondition(isRetryableResp)
}

func NewSentimentClient(cfg Config) *SentimentClient {
	return &SentimentClient{
		fng:     newRestyClient(cfg.SentimentBaseURL, cfg),
		funding: newRestyClient(cfg.FundingBaseURL, cfg),
	}
}

type fngResponse struct {
	Data []struct {
		Value string `json:"value"`
	} `json:"data"`
}

type premiumIndexResponse struct {
	Symbol          string `json:"symbol"`
	LastFundingRate string `json:"lastFundingRate"`
}

type openInterestResponse struct {
	Symbol       string `json:"symbol"`
	OpenInterest string `json:"openInterest"`
}

func (c *SentimentClient) RawSentiment(ctx context.Context, symbol string) (*RawSentiment, error) {
	raw := &RawSentiment{WhaleActivity: "moderate"}

	var fng fngResponse
	resp, err := c.fng.R().
		SetContext(ctx).
		SetQueryParam("limit", "1").
		SetResult(&fng).
		Get("/fng/")
	if err != nil {
		return nil, fmt.Errorf("fetch fear/greed index: %w", err)
	}
	if resp.IsSuccess() && len(fng.Data) > 0 {
		if v, convErr := strconv.ParseFloat(fng.Data[0].Value, 64); convErr == nil {
			raw.FearGreedIndex = v
			raw.HasFearGreed = true
		}
	}

	var premium premiumIndexResponse
	resp, err = c.funding.R().
		SetContext(ctx).
		SetQueryParam("symbol", symbol).
		SetResult(&premium).
		Get("/fapi/v1/premiumIndex")
	if err != nil {
		logger.WithError(err).WithField("symbol", symbol).Warn("Funding rate unavailable, continuing without it")
	} else if resp.IsSuccess() {
		if v, convErr := strconv.ParseFloat(premium.LastFundingRate, 64); convErr == nil {
			raw.FundingRate = v
		}
	}

	var oi openInterestResponse
	resp, err = c.funding.R().
		SetContext(ctx).
		SetQueryParam("symbol", symbol).
		SetResult(&oi).
		Get("/fapi/v1/openInterest")
	if err != nil {
		logger.WithError(err).WithField("symbol", symbol).Warn("Open interest unavailable, continuing without it")
	} else if resp.IsSuccess() {
		if v, convErr := strconv.ParseFloat(oi.OpenInterest, 64); convErr == nil {
			raw.OpenInterest = v
		}
	}

	// Social and news proxies ride on funding skew until a dedicated feed is
	// wired in: crowded longs read as positive chatter, crowded shorts negative.
	raw.SocialSentiment = raw.FundingRate * 100
	raw.NewsSentiment = raw.FundingRate * 50

	return raw, nil
}
