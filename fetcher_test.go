package sc13dg

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEmail = "research@sc13dg-tests.org"

// redirectTransport sends every request to a test server.
type redirectTransport struct {
	target *url.URL
}

func (rt redirectTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.URL.Scheme = rt.target.Scheme
	req.URL.Host = rt.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

func newTestFetcher(t *testing.T, srv *httptest.Server, opts ...FetcherOption) *Fetcher {
	t.Helper()
	target, err := url.Parse(srv.URL)
	require.NoError(t, err)

	opts = append([]FetcherOption{
		WithHTTPClient(&http.Client{Transport: redirectTransport{target: target}}),
		WithRateLimit(1000),
	}, opts...)
	f, err := NewFetcher(testEmail, opts...)
	require.NoError(t, err)
	return f
}

func TestValidateSecEmail(t *testing.T) {
	tests := []struct {
		email   string
		wantErr bool
	}{
		{"analyst@fund.com", false},
		{"first.last+sec@research.co.uk", false},
		{"", true},
		{"not-an-email", true},
		{"someone@example.com", true},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			got, err := ValidateSecEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.email, got)
		})
	}
}

func TestBuildUserAgent(t *testing.T) {
	assert.Equal(t, "go-sc13dg/"+VERSION+" (analyst@fund.com)", BuildUserAgent("analyst@fund.com"))
}

func TestFetcherGetSendsUserAgent(t *testing.T) {
	var agent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent = r.Header.Get("User-Agent")
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	body, err := newTestFetcher(t, srv).Get(context.Background(), srv.URL+"/x")
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, BuildUserAgent(testEmail), agent)
}

func TestFetcherRetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("recovered"))
	}))
	defer srv.Close()

	body, err := newTestFetcher(t, srv).Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "recovered", string(body))
	assert.EqualValues(t, 2, hits.Load())
}

func TestFetcherDoesNotRetryNotFound(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := newTestFetcher(t, srv).Get(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
	assert.EqualValues(t, 1, hits.Load())
}

func TestFetcherDetectsTrafficLimitPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<h1>You've Exceeded the SEC's Traffic Limit</h1>"))
	}))
	defer srv.Close()

	_, err := newTestFetcher(t, srv, WithMaxRetries(0)).Get(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestFetchFilingText(t *testing.T) {
	submission := readFixture(t, "sc13g.txt")
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		switch r.URL.Path {
		case "/Archives/edgar/data/1000045/0001104659-23-018361.txt":
			w.Write([]byte(submission))
		case "/Archives/edgar/data/1000045/000110465923018361/primary_doc.xml":
			w.Write([]byte("<edgarSubmission/>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := newTestFetcher(t, srv)
	ref := FilingRef{CIK: "1000045", FileName: "edgar/data/1000045/0001104659-23-018361.txt"}

	text, err := f.FetchFilingText(context.Background(), ref)
	require.NoError(t, err)
	assert.Contains(t, text, "<TYPE>SC 13G")
	assert.Contains(t, text, "WIDGET HOLDINGS INC")

	ref.Document = "primary_doc.xml"
	text, err = f.FetchFilingText(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, "<edgarSubmission/>", text)
	assert.Len(t, paths, 2)
}

var _ TextFetcher = (*Fetcher)(nil)

func TestFetchFilingTextResolvesIndexPage(t *testing.T) {
	submission := readFixture(t, "sc13g.txt")
	indexPath := "/Archives/edgar/data/1000045/000110465923018361/0001104659-23-018361-index.htm"
	var serveIndex atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case indexPath:
			if !serveIndex.Load() {
				http.NotFound(w, r)
				return
			}
			w.Write([]byte(indexPageSample))
		case "/Archives/edgar/data/1000045/000110465923018361/primary_doc.xml":
			w.Write([]byte("<edgarSubmission/>"))
		case "/Archives/edgar/data/1000045/0001104659-23-018361.txt":
			w.Write([]byte(submission))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := newTestFetcher(t, srv, WithDocumentResolution(true))
	ref := FilingRef{CIK: "1000045", FileName: "edgar/data/1000045/0001104659-23-018361.txt"}

	serveIndex.Store(true)
	text, err := f.FetchFilingText(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, "<edgarSubmission/>", text)

	serveIndex.Store(false)
	text, err = f.FetchFilingText(context.Background(), ref)
	require.NoError(t, err)
	assert.Contains(t, text, "<TYPE>SC 13G", "falls back to the .txt submission")
}

func TestResolveDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(indexPageSample))
	}))
	defer srv.Close()

	ref, err := ResolveDocument(context.Background(), newTestFetcher(t, srv),
		FilingRef{FileName: "edgar/data/1000045/0001104659-23-018361.txt"})
	require.NoError(t, err)
	assert.Equal(t, "primary_doc.xml", ref.Document)
	assert.Equal(t, "SC 13G", ref.FormType)
	assert.Equal(t, "WIDGET HOLDINGS INC", ref.CompanyName)
}

// TestFetchMasterIndex_RealSEC lists a past quarter's Schedule 13 filings.
// Skip in short mode to avoid rate limiting
func TestFetchMasterIndex_RealSEC(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	email, err := GetSecEmail()
	if err != nil {
		t.Skipf("skipping integration test: %v", err)
	}

	f, err := NewFetcher(email)
	require.NoError(t, err)

	refs, err := FetchMasterIndex(context.Background(), f, 2023, 1, "13")
	require.NoError(t, err)
	require.NotEmpty(t, refs)
	for _, ref := range refs[:min(len(refs), 20)] {
		_, err := ParseFormType(ref.FormType)
		assert.NoError(t, err, ref.FormType)
	}
}
