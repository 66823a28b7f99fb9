package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/pairscan/internal/panel"
)

// FetchDailyCloses fetches daily close prices for a stock.
// ⭐ SSOT: Naver Finance 가격 API 호출은 이 함수에서만
func (c *Client) FetchDailyCloses(ctx context.Context, stockCode string, from, to time.Time) ([]panel.Quote, error) {
	url := fmt.Sprintf(
		"%s/siseJson.naver?symbol=%s&requestType=1&startTime=%s&endTime=%s&timeframe=day",
		c.chartBaseURL, stockCode, from.Format("20060102"), to.Format("20060102"),
	)

	body, err := c.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	quotes, err := c.parsePriceResponse(body)
	if err != nil {
		return nil, fmt.Errorf("parse response failed: %w", err)
	}

	c.logger.WithFields(map[string]interface{}{
		"stock_code": stockCode,
		"count":      len(quotes),
	}).Debug("Fetched daily closes")
	return quotes, nil
}

// FetchUniverse fetches closes for every symbol. Symbols that fail to
// fetch are dropped with a warning, not fatal.
func (c *Client) FetchUniverse(ctx context.Context, symbols []string, from, to time.Time) (map[string][]panel.Quote, error) {
	series := make(map[string][]panel.Quote, len(symbols))
	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		quotes, err := c.FetchDailyCloses(ctx, symbol, from, to)
		if err != nil {
			c.logger.WithError(err).WithField("stock_code", symbol).Warn("Fetch failed, dropping symbol")
			continue
		}
		series[symbol] = quotes
	}
	return series, nil
}

// parsePriceResponse parses the siseJson response. The payload is a
// quasi-JSON array with single quotes.
func (c *Client) parsePriceResponse(body string) ([]panel.Quote, error) {
	body = strings.TrimSpace(body)
	body = strings.ReplaceAll(body, "'", "\"")

	var rawData [][]interface{}
	if err := json.Unmarshal([]byte(body), &rawData); err == nil {
		return c.parsePriceJSON(rawData)
	}

	// Fallback to regex parsing
	return c.parsePriceRegex(body)
}

// parsePriceJSON parses JSON array format.
// 컬럼: 날짜 | 시가 | 고가 | 저가 | 종가 | 거래량
func (c *Client) parsePriceJSON(rawData [][]interface{}) ([]panel.Quote, error) {
	var quotes []panel.Quote
	for i, row := range rawData {
		if i == 0 || len(row) < 6 {
			continue // skip header
		}

		dateStr, ok := row[0].(string)
		if !ok {
			continue
		}
		date, err := parseCompactDate(strings.Trim(dateStr, "\""))
		if err != nil {
			continue
		}

		close := toFloat64(row[4])
		if close <= 0 {
			continue
		}

		quotes = append(quotes, panel.Quote{Date: date, Close: close})
	}
	return quotes, nil
}

// parsePriceRegex parses using regex (fallback).
func (c *Client) parsePriceRegex(body string) ([]panel.Quote, error) {
	re := regexp.MustCompile(`\["(\d{8})",\s*(\d+),\s*(\d+),\s*(\d+),\s*(\d+),\s*(\d+)\]`)
	matches := re.FindAllStringSubmatch(body, -1)

	var quotes []panel.Quote
	for _, match := range matches {
		if len(match) < 7 {
			continue
		}

		date, err := parseCompactDate(match[1])
		if err != nil {
			continue
		}

		close, _ := strconv.ParseFloat(match[5], 64)
		if close <= 0 {
			continue
		}

		quotes = append(quotes, panel.Quote{Date: date, Close: close})
	}
	return quotes, nil
}

func parseCompactDate(s string) (time.Time, error) {
	if len(s) != 8 {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return time.Parse("2006-01-02", s[:4]+"-"+s[4:6]+"-"+s[6:8])
}

// toFloat64 converts various siseJson cell types to float64.
func toFloat64(v interface{}) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int64:
		return float64(val)
	case int:
		return float64(val)
	case string:
		f, _ := strconv.ParseFloat(val, 64)
		return f
	default:
		return 0
	}
}
