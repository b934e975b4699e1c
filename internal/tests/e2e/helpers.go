package e2e

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestClient wraps HTTP calls to the service
type TestClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewTestClient(baseURL string) *TestClient {
	return &TestClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Do sends body as JSON and decodes a JSON response into out when out is non-nil.
func (c *TestClient) Do(t *testing.T, method, path string, body any, headers map[string]string, out any) int {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		reader = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil && len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, out), "body: %s", raw)
	}
	return resp.StatusCode
}

// createdSession is what the fake processor recorded for one checkout session.
type createdSession struct {
	ID            string
	AmountMinor   int64
	Currency      string
	CustomerEmail string
	ProductName   string
	Metadata      map[string]string
}

// FakeStripe serves the two checkout session endpoints the gateway calls.
type FakeStripe struct {
	Server *httptest.Server

	mu       sync.Mutex
	sessions map[string]createdSession
	next     int
}

func NewFakeStripe(t *testing.T) *FakeStripe {
	t.Helper()
	f := &FakeStripe{sessions: make(map[string]createdSession)}
	f.Server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.Server.Close)
	return f
}

func (f *FakeStripe) handle(w http.ResponseWriter, r *http.Request) {
	const prefix = "/v1/checkout/sessions"

	switch {
	case r.Method == http.MethodPost && r.URL.Path == prefix:
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		amount, _ := strconv.ParseInt(r.PostForm.Get("line_items[0][price_data][unit_amount]"), 10, 64)
		meta := make(map[string]string)
		for k := range r.PostForm {
			if strings.HasPrefix(k, "metadata[") {
				meta[strings.TrimSuffix(strings.TrimPrefix(k, "metadata["), "]")] = r.PostForm.Get(k)
			}
		}

		f.mu.Lock()
		f.next++
		s := createdSession{
			ID:            fmt.Sprintf("cs_test_e2e_%d", f.next),
			AmountMinor:   amount,
			Currency:      r.PostForm.Get("line_items[0][price_data][currency]"),
			CustomerEmail: r.PostForm.Get("customer_email"),
			ProductName:   r.PostForm.Get("line_items[0][price_data][product_data][name]"),
			Metadata:      meta,
		}
		f.sessions[s.ID] = s
		f.mu.Unlock()

		writeJSON(w, map[string]any{"id": s.ID, "object": "checkout.session", "url": "https://checkout.stripe.test/" + s.ID})

	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, prefix+"/"):
		id := strings.TrimPrefix(r.URL.Path, prefix+"/")
		if _, ok := f.Session(id); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			writeJSON(w, map[string]any{"error": map[string]any{"type": "invalid_request_error", "message": "No such checkout.session"}})
			return
		}
		writeJSON(w, map[string]any{"id": id, "object": "checkout.session", "url": "https://checkout.stripe.test/" + id})

	default:
		http.NotFound(w, r)
	}
}

func (f *FakeStripe) Session(id string) (createdSession, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	return s, ok
}

// CompletedEvent renders the checkout.session.completed event the processor
// would send for s.
func (f *FakeStripe) CompletedEvent(t *testing.T, eventID string, s createdSession) []byte {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"id":     eventID,
		"object": "event",
		"type":   "checkout.session.completed",
		"data": map[string]any{
			"object": map[string]any{
				"id":             s.ID,
				"object":         "checkout.session",
				"amount_total":   s.AmountMinor,
				"currency":       s.Currency,
				"customer_email": s.CustomerEmail,
				"payment_status": "paid",
				"metadata":       s.Metadata,
			},
		},
	})
	require.NoError(t, err)
	return raw
}

// Sign produces a Stripe-Signature header value for payload.
func Sign(secret string, payload []byte, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

type sentEmail struct {
	From           string   `json:"from"`
	To             []string `json:"to"`
	Subject        string   `json:"subject"`
	HTML           string   `json:"html"`
	IdempotencyKey string   `json:"-"`
}

// FakeResend records every email posted to it.
type FakeResend struct {
	Server *httptest.Server

	mu     sync.Mutex
	emails []sentEmail
}

func NewFakeResend(t *testing.T) *FakeResend {
	t.Helper()
	f := &FakeResend{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var e sentEmail
		if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		e.IdempotencyKey = r.Header.Get("Idempotency-Key")

		f.mu.Lock()
		f.emails = append(f.emails, e)
		n := len(f.emails)
		f.mu.Unlock()

		writeJSON(w, map[string]any{"id": fmt.Sprintf("msg_%d", n)})
	}))
	t.Cleanup(f.Server.Close)
	return f
}

func (f *FakeResend) Emails() []sentEmail {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentEmail(nil), f.emails...)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
