package scraper

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/time/rate"

	"github.com/fr4nk3nst1ner/salarystats/internal/client"
	"github.com/fr4nk3nst1ner/salarystats/internal/currency"
	"github.com/fr4nk3nst1ner/salarystats/internal/logger"
)

const (
	// CBRDailyURL is the daily rate feed of the Central Bank of Russia
	CBRDailyURL = "http://www.cbr.ru/scripts/XML_daily.asp"

	cbrDateLayout = "02/01/2006"
)

// CBRSource fetches daily rates from the Central Bank of Russia XML feed
type CBRSource struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *logger.Entry
}

var _ currency.RateSource = (*CBRSource)(nil)

// NewCBRSource creates a source for baseURL (CBRDailyURL when empty) issuing
// at most requestsPerSecond requests; zero or less means unlimited.
func NewCBRSource(baseURL string, httpClient *http.Client, requestsPerSecond float64) *CBRSource {
	if baseURL == "" {
		baseURL = CBRDailyURL
	}
	if httpClient == nil {
		httpClient = client.CreateHTTPClient()
	}
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	return &CBRSource{
		baseURL:    baseURL,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, 1),
		log:        logger.GetLogger().WithComponent("cbr"),
	}
}

// RequestURL returns the feed URL for a day
func (s *CBRSource) RequestURL(day time.Time) string {
	return s.baseURL + "?date_req=" + day.Format(cbrDateLayout)
}

// DailyRates returns code -> value as published for day. Values keep the
// feed's decimal comma. The Nominal field is not applied.
func (s *CBRSource) DailyRates(ctx context.Context, day time.Time) (map[string]string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	started := time.Now()
	reqURL := s.RequestURL(day)
	body, err := client.Get(ctx, s.httpClient, reqURL, client.GetHeaders(client.AcceptXML))
	if err != nil {
		return nil, err
	}

	rates, err := ParseDailyRates(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rates for %s: %w", day.Format(cbrDateLayout), err)
	}

	logger.LogDuration(s.log, "daily_rates", started, logger.Fields{
		"date":  day.Format(cbrDateLayout),
		"codes": len(rates),
	})
	return rates, nil
}

// ParseDailyRates decodes a windows-1251 feed document into code -> value
func ParseDailyRates(body []byte) (map[string]string, error) {
	decoded := charmap.Windows1251.NewDecoder().Reader(bytes.NewReader(body))
	doc, err := goquery.NewDocumentFromReader(decoded)
	if err != nil {
		return nil, err
	}

	rates := make(map[string]string)
	doc.Find("valute").Each(func(_ int, v *goquery.Selection) {
		code := strings.TrimSpace(v.Find("charcode").First().Text())
		value := strings.TrimSpace(v.Find("value").First().Text())
		if code != "" {
			rates[code] = value
		}
	})
	return rates, nil
}
