package marketdata

import (
	"testing"
)

func TestParseStockName(t *testing.T) {
	html := `<html><body>
<div class="wrap_company">
  <h2><a href="/item/main.naver?code=005930">삼성전자</a></h2>
</div>
</body></html>`

	name, err := parseStockName(html)
	if err != nil {
		t.Fatalf("parseStockName() error = %v", err)
	}
	if name != "삼성전자" {
		t.Errorf("parseStockName() = %q, want 삼성전자", name)
	}
}

func TestParseStockName_Missing(t *testing.T) {
	if _, err := parseStockName("<html><body></body></html>"); err == nil {
		t.Error("expected error for missing company block")
	}
}

func TestParseMarketListing(t *testing.T) {
	html := `<html><body>
<table class="type_2">
  <tr><th>N</th><th>종목명</th></tr>
  <tr><td>1</td><td><a href="/item/main.naver?code=005930" class="tltle">삼성전자</a></td></tr>
  <tr><td>2</td><td><a href="/item/main.naver?code=000660" class="tltle">SK하이닉스</a></td></tr>
  <tr><td colspan="2">광고</td></tr>
</table>
</body></html>`

	listing, err := parseMarketListing(html)
	if err != nil {
		t.Fatalf("parseMarketListing() error = %v", err)
	}
	if len(listing) != 2 {
		t.Fatalf("parseMarketListing() got %d rows, want 2", len(listing))
	}
	if listing["005930"] != "삼성전자" {
		t.Errorf("listing[005930] = %q", listing["005930"])
	}
	if listing["000660"] != "SK하이닉스" {
		t.Errorf("listing[000660] = %q", listing["000660"])
	}
}

func TestParseMarketListing_Empty(t *testing.T) {
	if _, err := parseMarketListing("<html><body></body></html>"); err == nil {
		t.Error("expected error for page without listing table")
	}
}
