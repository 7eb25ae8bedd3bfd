package giantfood

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"

	"grocery-deal-finder/config"
	"grocery-deal-finder/models"
	"grocery-deal-finder/services"
	"grocery-deal-finder/utils"
)

const (
	couponsPath  = "/coupons-weekly-circular/digital-coupons"
	weeklyAdPath = "/coupons-weekly-circular/weekly-ad"
)

var (
	// moneyRegexp captures the first dollar amount in a card's text.
	moneyRegexp = regexp.MustCompile(`\$?(\d+\.?\d*)`)
)

// Scraper collects digital coupons and weekly-ad sales from the store
// site. Pages are rendered headless with chromedp and the resulting DOM
// is parsed with goquery.
type Scraper struct {
	cfg    *config.Config
	logger *utils.Logger
	pool   *utils.WorkerPool
	retry  *utils.RetryConfig
}

// New creates a ready-to-use store Scraper.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	return &Scraper{
		cfg:    cfg,
		logger: logger,
		pool:   utils.NewWorkerPool(2, cfg.RateLimitMs),
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			MaxDelay:    30 * time.Second,
			Logger:      logger,
		},
	}
}

// Scrape fetches the coupons page and the weekly-ad page concurrently and
// returns both record collections keyed by normalized product name.
// A cycle where either page yields nothing is reported as an error — the
// matcher has no use for half a snapshot.
func (s *Scraper) Scrape() (map[string]models.CouponRecord, map[string]models.SaleRecord, error) {
	s.logger.Info("[giantfood] Starting scrape — store %s (zip %s)", s.cfg.StoreID, s.cfg.ZipCode)

	chromeBin := findChromeBinary(s.cfg.ChromeBin)
	if chromeBin != "" {
		s.logger.Info("[giantfood] Using browser binary: %s", chromeBin)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent("Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	silentCtx, cancelSilent := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelSilent()
	allocCtx = silentCtx

	// Duplicate-card suppression is scoped to this snapshot: a card seen
	// this cycle must come back next cycle or the dedup window downstream
	// never gets the chance to re-notify it.
	seen := utils.NewKeySet()

	var (
		mu        sync.Mutex
		coupons   map[string]models.CouponRecord
		sales     map[string]models.SaleRecord
		couponErr error
		saleErr   error
	)

	s.pool.Submit(func() {
		html, err := s.fetchRenderedHTML(allocCtx, "fetch-coupons", s.cfg.StoreBaseURL+couponsPath)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			couponErr = err
			return
		}
		coupons, couponErr = s.parseCoupons(html, seen)
	})

	s.pool.Submit(func() {
		html, err := s.fetchRenderedHTML(allocCtx, "fetch-weekly-ad", s.cfg.StoreBaseURL+weeklyAdPath)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			saleErr = err
			return
		}
		sales, saleErr = s.parseSales(html, seen)
	})

	s.pool.Wait()

	if couponErr != nil {
		return nil, nil, fmt.Errorf("giantfood: coupons: %w", couponErr)
	}
	if saleErr != nil {
		return nil, nil, fmt.Errorf("giantfood: weekly ad: %w", saleErr)
	}
	if err := checkSnapshot(coupons, sales); err != nil {
		return nil, nil, err
	}

	s.logger.Info("[giantfood] Scrape complete — %d coupons, %d sale items", len(coupons), len(sales))
	return coupons, sales, nil
}

// fetchRenderedHTML loads one page in a fresh tab and returns the
// rendered document.
func (s *Scraper) fetchRenderedHTML(allocCtx context.Context, operation, pageURL string) (string, error) {
	var html string

	err := s.retry.Do(operation, func() error {
		ctx, cancel := chromedp.NewContext(allocCtx)
		defer cancel()

		ctx, cancelTimeout := context.WithTimeout(ctx, time.Duration(s.cfg.TimeoutSec)*time.Second)
		defer cancelTimeout()

		var rendered string
		err := chromedp.Run(ctx,
			chromedp.Navigate(pageURL),
			// The card grid hydrates client-side; give it a moment.
			chromedp.Sleep(5*time.Second),
			chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
			chromedp.Sleep(2*time.Second),
			chromedp.OuterHTML("html", &rendered),
		)
		if err != nil {
			return fmt.Errorf("chromedp load %s: %w", pageURL, err)
		}

		html = rendered
		return nil
	})

	return html, err
}

// checkSnapshot rejects half a snapshot. A page that renders but yields
// zero cards means the selectors or the hydration wait broke, and the
// matcher would just pair nothing against nothing.
func checkSnapshot(coupons map[string]models.CouponRecord, sales map[string]models.SaleRecord) error {
	if len(coupons) == 0 {
		return fmt.Errorf("giantfood: coupons page yielded no cards")
	}
	if len(sales) == 0 {
		return fmt.Errorf("giantfood: weekly-ad page yielded no items")
	}
	return nil
}

// parseCoupons extracts coupon cards from the rendered coupons page.
// Cards already recorded in seen this snapshot are skipped.
func (s *Scraper) parseCoupons(html string, seen *utils.KeySet) (map[string]models.CouponRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	coupons := make(map[string]models.CouponRecord)

	doc.Find("[data-testid='coupon-card'], .coupon-card, .coupon-item").Each(func(_ int, card *goquery.Selection) {
		name := firstText(card, ".product-name", ".coupon-title", "h3", "h4", "[data-testid='product-name']")
		if name == "" {
			return
		}

		discountText := firstText(card, ".discount-amount", ".coupon-value", ".savings", "[data-testid='discount']")
		discount, ok := parseMoney(discountText)
		if !ok {
			s.logger.Debug("[giantfood] Coupon %q has no readable discount: %q", name, discountText)
			return
		}

		expiry := firstText(card, ".expiry-date", ".expires", ".valid-until")
		if expiry == "" {
			expiry = "Unknown"
		}

		description := firstText(card, ".coupon-description", ".qualifying-products", ".details")
		if description == "" {
			description = discountText
		}

		key := services.Normalize(name)
		if key == "" || !seen.Add("coupon:"+key) {
			return
		}

		coupons[key] = models.CouponRecord{
			ProductName:    name,
			DiscountAmount: discount,
			Description:    description,
			ExpiryDate:     expiry,
		}
	})

	s.logger.Info("[giantfood] Parsed %d digital coupons", len(coupons))
	return coupons, nil
}

// parseSales extracts sale cards from the rendered weekly-ad page.
// Cards already recorded in seen this snapshot are skipped.
func (s *Scraper) parseSales(html string, seen *utils.KeySet) (map[string]models.SaleRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	sales := make(map[string]models.SaleRecord)

	doc.Find("[data-testid='sale-item'], .sale-item, .product-card").Each(func(_ int, card *goquery.Selection) {
		name := firstText(card, ".product-name", ".item-name", "h3", "h4", "[data-testid='product-name']")
		if name == "" {
			return
		}

		salePriceText := firstText(card, ".sale-price", ".current-price", ".price-now", "[data-testid='sale-price']")
		salePrice, ok := parseMoney(salePriceText)
		if !ok {
			s.logger.Debug("[giantfood] Sale %q has no readable price: %q", name, salePriceText)
			return
		}

		// Without a separate "was" price the sale itself saves nothing.
		originalPrice := salePrice
		wasText := firstText(card, ".original-price", ".was-price", ".price-was", "[data-testid='original-price']")
		if was, ok := parseMoney(wasText); ok {
			originalPrice = was
		}

		description := firstText(card, ".sale-description", ".promo-text", ".deal-text")
		if description == "" {
			description = fmt.Sprintf("On sale for $%.2f", salePrice)
		}

		key := services.Normalize(name)
		if key == "" || !seen.Add("sale:"+key) {
			return
		}

		sales[key] = models.SaleRecord{
			ProductName:     name,
			OriginalPrice:   originalPrice,
			SalePrice:       salePrice,
			SaleDescription: description,
		}
	})

	s.logger.Info("[giantfood] Parsed %d weekly-ad items", len(sales))
	return sales, nil
}

// firstText returns the trimmed text of the first selector that yields
// a non-empty node, mirroring how the site buries the same field under
// different class names depending on the card variant.
func firstText(card *goquery.Selection, selectors ...string) string {
	for _, sel := range selectors {
		if text := strings.TrimSpace(card.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// parseMoney extracts the first dollar amount from raw card text.
func parseMoney(raw string) (float64, bool) {
	match := moneyRegexp.FindStringSubmatch(raw)
	if len(match) < 2 {
		return 0, false
	}
	val, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, false
	}
	return val, true
}

// findChromeBinary locates a Chrome/Chromium binary, preferring the
// configured path.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
