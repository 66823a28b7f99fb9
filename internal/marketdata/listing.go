package marketdata

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var stockCodeRe = regexp.MustCompile(`code=(\d{6})`)

// FetchStockName scrapes the display name for a stock code from the
// Naver Finance item page.
func (c *Client) FetchStockName(ctx context.Context, stockCode string) (string, error) {
	url := fmt.Sprintf("%s/item/main.naver?code=%s", c.baseURL, stockCode)

	body, err := c.fetch(ctx, url)
	if err != nil {
		return "", err
	}

	name, err := parseStockName(body)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", stockCode, err)
	}
	return name, nil
}

// FetchNames resolves display names for a list of codes. Codes that
// fail to resolve keep the code itself as the name.
func (c *Client) FetchNames(ctx context.Context, stockCodes []string) (map[string]string, error) {
	names := make(map[string]string, len(stockCodes))
	for _, code := range stockCodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name, err := c.FetchStockName(ctx, code)
		if err != nil {
			c.logger.WithError(err).WithField("stock_code", code).Warn("Name lookup failed")
			names[code] = code
			continue
		}
		names[code] = name
	}
	return names, nil
}

// FetchMarketListing scrapes one page of the KOSPI/KOSDAQ listing table
// and returns code -> name. market: 0 = KOSPI, 1 = KOSDAQ.
func (c *Client) FetchMarketListing(ctx context.Context, market, page int) (map[string]string, error) {
	url := fmt.Sprintf("%s/sise/sise_market_sum.naver?sosok=%d&page=%d", c.baseURL, market, page)

	body, err := c.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	listing, err := parseMarketListing(body)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"market": market,
		"page":   page,
		"count":  len(listing),
	}).Debug("Fetched market listing")
	return listing, nil
}

// parseStockName extracts the item name from the wrap_company block.
func parseStockName(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	name := strings.TrimSpace(doc.Find("div.wrap_company h2 a").First().Text())
	if name == "" {
		return "", fmt.Errorf("stock name not found")
	}
	return name, nil
}

// parseMarketListing extracts code -> name rows from the market sum
// table.
func parseMarketListing(html string) (map[string]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	listing := make(map[string]string)
	doc.Find("table.type_2 tr").Each(func(i int, row *goquery.Selection) {
		link := row.Find("a.tltle").First()
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		match := stockCodeRe.FindStringSubmatch(href)
		if match == nil {
			return
		}
		name := strings.TrimSpace(link.Text())
		if name == "" {
			return
		}
		listing[match[1]] = name
	})

	if len(listing) == 0 {
		return nil, fmt.Errorf("no listing rows found")
	}
	return listing, nil
}
