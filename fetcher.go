package sc13dg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"
)

const (
	VERSION = "0.1.0"

	// DefaultRequestsPerSecond is the SEC fair-access limit.
	DefaultRequestsPerSecond = 10

	// SecEmailEnvVar is the environment variable name for SEC email
	SecEmailEnvVar = "SEC_EMAIL"
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// GetSecEmail retrieves email from environment variable or returns error
func GetSecEmail() (string, error) {
	return ValidateSecEmail(os.Getenv(SecEmailEnvVar))
}

// ValidateSecEmail checks that email can identify us to the SEC.
func ValidateSecEmail(email string) (string, error) {
	if email == "" {
		return "", fmt.Errorf("SEC email required: set %s environment variable or use --email flag", SecEmailEnvVar)
	}
	if !emailRe.MatchString(email) {
		return "", fmt.Errorf("invalid email format: %s", email)
	}
	if strings.HasSuffix(email, "example.com") {
		return "", fmt.Errorf("use a real email address, not example.com: %s", email)
	}
	return email, nil
}

// BuildUserAgent creates a proper SEC User-Agent string
func BuildUserAgent(email string) string {
	return fmt.Sprintf("go-sc13dg/%s (%s)", VERSION, email)
}

// TextFetcher retrieves the raw text of a filing document.
type TextFetcher interface {
	FetchFilingText(ctx context.Context, ref FilingRef) (string, error)
}

// Fetcher downloads from EDGAR with the SEC-required User-Agent, a shared
// rate limit and retries on throttling and server errors.
type Fetcher struct {
	client     *http.Client
	limiter    *rate.Limiter
	userAgent  string
	maxRetries uint64
	resolve    bool
	logger     *slog.Logger
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) { f.client = c }
}

// WithRateLimit sets the request rate in requests per second.
func WithRateLimit(rps float64) FetcherOption {
	return func(f *Fetcher) {
		if rps > 0 {
			f.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithMaxRetries sets how many times a failed request is retried.
func WithMaxRetries(n uint64) FetcherOption {
	return func(f *Fetcher) { f.maxRetries = n }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) { f.client.Timeout = d }
}

// WithDocumentResolution makes FetchFilingText look up the primary
// document on the filing's index page for refs that name none.
func WithDocumentResolution(enabled bool) FetcherOption {
	return func(f *Fetcher) { f.resolve = enabled }
}

// WithLogger sets the logger for retry notices.
func WithLogger(l *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewFetcher creates a Fetcher. Email is required by the SEC and must be
// a valid address.
func NewFetcher(email string, opts ...FetcherOption) (*Fetcher, error) {
	email, err := ValidateSecEmail(email)
	if err != nil {
		return nil, err
	}
	f := &Fetcher{
		client:     &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRequestsPerSecond), 1),
		userAgent:  BuildUserAgent(email),
		maxRetries: 3,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// statusError is a non-200 response.
type statusError struct {
	url    string
	status int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("SEC returned status %d for %s", e.status, e.url)
}

// Get fetches url, waiting for the rate limiter before every attempt.
// 429, 5xx, transport errors and the traffic-limit page are retried with
// exponential backoff; other statuses fail at once.
func (f *Fetcher) Get(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	op := func() error {
		if err := f.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
		b, err := f.get(ctx, url)
		if err != nil {
			var se *statusError
			if errors.As(err, &se) && se.status != http.StatusTooManyRequests && se.status < 500 {
				return backoff.Permanent(err)
			}
			return err
		}
		body = b
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), f.maxRetries), ctx)
	notify := func(err error, wait time.Duration) {
		f.logger.Warn("retrying SEC request", "url", url, "error", err, "wait", wait)
	}
	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return nil, err
	}
	return body, nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{url: url, status: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if isRateLimitPage(body) {
		return nil, ErrRateLimited
	}
	return body, nil
}

// FetchFilingText returns the raw text of the filing's primary document,
// or of the main Schedule 13D/13G document of the .txt submission when
// the ref names none. With document resolution enabled, a ref without a
// document is first resolved through its index page; the .txt submission
// remains the fallback.
func (f *Fetcher) FetchFilingText(ctx context.Context, ref FilingRef) (string, error) {
	if ref.Document == "" && f.resolve {
		resolved, err := ResolveDocument(ctx, f, ref)
		if err != nil {
			f.logger.Debug("index page resolution failed", "file", ref.FileName, "error", err)
		} else {
			ref = resolved
		}
	}
	if ref.Document != "" {
		body, err := f.Get(ctx, ref.DocumentURL())
		if err != nil {
			return "", fmt.Errorf("failed to fetch %s: %w", ref.Document, err)
		}
		return string(body), nil
	}

	body, err := f.Get(ctx, ref.TxtURL())
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", ref.FileName, err)
	}
	sub, err := ParseSubmission(string(body))
	if err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", ref.FileName, err)
	}
	doc, err := sub.MainDocument()
	if err != nil {
		return "", err
	}
	if DetectDocumentKind([]byte(doc.Text)) != KindText {
		return doc.Text, nil
	}
	return doc.Raw, nil
}
