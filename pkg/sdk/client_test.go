package sdk

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/domain"
	chiTransport "github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/transport/chi"
	healthuc "github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/usecase/health"
	"github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/usecase/rag"
)

// --- Fakes ---

type fakeSession struct {
	info      rag.Info
	ready     bool
	uploadErr error
	askErr    error
	answer    string
	gotPDF    []byte
}

func (f *fakeSession) Upload(_ context.Context, pdf []byte, source string) (rag.Info, error) {
	f.gotPDF = pdf
	if f.uploadErr != nil {
		return rag.Info{}, f.uploadErr
	}
	f.info.Source = source
	f.ready = true
	return f.info, nil
}

func (f *fakeSession) Ask(_ context.Context, _ string) (string, error) {
	if f.askErr != nil {
		return "", f.askErr
	}
	if !f.ready {
		return "", domain.ErrNotReady
	}
	return f.answer, nil
}

func (f *fakeSession) Info() (rag.Info, bool) { return f.info, f.ready }

type fakeHealth struct{ report healthuc.Report }

func (f fakeHealth) Check(context.Context) healthuc.Report { return f.report }

func newTestServer(t *testing.T, sess *fakeSession, report healthuc.Report) *httptest.Server {
	t.Helper()
	srv := chiTransport.NewServer(sess, fakeHealth{report: report}, nil, 0)
	ts := httptest.NewServer(chiTransport.NewRouter(srv, chiTransport.RouterConfig{}))
	t.Cleanup(ts.Close)
	return ts
}

func healthy() healthuc.Report {
	return healthuc.Report{Status: healthuc.Healthy, Checks: map[string]healthuc.CheckResult{"embedding": healthuc.CheckOK}}
}

// --- Tests ---

func TestNew_InvalidURL(t *testing.T) {
	for _, u := range []string{"localhost:8000", "ftp://example.com", "://bad"} {
		if _, err := New(u); err == nil {
			t.Errorf("expected error for %q", u)
		}
	}
}

func TestUploadAndAsk(t *testing.T) {
	sess := &fakeSession{info: rag.Info{SessionID: "s-1", Pages: 2, Chunks: 5}, answer: "Paris"}
	ts := newTestServer(t, sess, healthy())

	c, err := New(ts.URL + "/")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	ctx := context.Background()

	if _, err := c.Ask(ctx, "What is the capital of France?"); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady before upload, got %v", err)
	}

	res, err := c.Upload(ctx, "/tmp/capitals.pdf", strings.NewReader("%PDF-1.4 fake"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if res.SessionID != "s-1" || res.Pages != 2 || res.Chunks != 5 || res.Source != "capitals.pdf" {
		t.Errorf("unexpected upload result %+v", res)
	}
	if res.Message != "PDF uploaded and processed" {
		t.Errorf("unexpected message %q", res.Message)
	}
	if string(sess.gotPDF) != "%PDF-1.4 fake" {
		t.Errorf("server received %q", sess.gotPDF)
	}

	answer, err := c.Ask(ctx, "What is the capital of France?")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if answer != "Paris" {
		t.Errorf("expected Paris, got %q", answer)
	}

	info, err := c.Session(ctx)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if !info.Ready || info.SessionID != "s-1" {
		t.Errorf("unexpected session %+v", info)
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name      string
		uploadErr error
		askErr    error
		want      error
	}{
		{"parse", domain.ErrDocumentParse, nil, ErrDocumentParse},
		{"not pdf", domain.ErrNotPDF, nil, ErrNotPDF},
		{"index", domain.ErrIndexBuild, nil, ErrIndexBuild},
		{"generation", nil, domain.ErrGeneration, ErrGeneration},
		{"embedding", nil, domain.ErrEmbeddingProviderError, ErrEmbeddingProviderError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := &fakeSession{uploadErr: tt.uploadErr, askErr: tt.askErr, ready: true}
			c, err := New(newTestServer(t, sess, healthy()).URL)
			if err != nil {
				t.Fatalf("new client: %v", err)
			}

			if tt.uploadErr != nil {
				_, err = c.Upload(context.Background(), "doc.pdf", strings.NewReader("%PDF-"))
			} else {
				_, err = c.Ask(context.Background(), "q")
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			var apiErr *APIError
			if !errors.As(err, &apiErr) || apiErr.StatusCode < 400 {
				t.Errorf("expected APIError with status, got %#v", err)
			}
		})
	}
}

func TestUpload_NotPDFName(t *testing.T) {
	sess := &fakeSession{}
	c, _ := New(newTestServer(t, sess, healthy()).URL)

	_, err := c.Upload(context.Background(), "notes.txt", strings.NewReader("hello"))
	if !errors.Is(err, ErrNotPDF) {
		t.Fatalf("expected ErrNotPDF, got %v", err)
	}
	if sess.gotPDF != nil {
		t.Error("server should reject before processing")
	}
}

func TestAsk_BlankQuestion(t *testing.T) {
	c, _ := New(newTestServer(t, &fakeSession{ready: true}, healthy()).URL)

	_, err := c.Ask(context.Background(), "  ")
	if !errors.Is(err, ErrInvalidQuestion) {
		t.Fatalf("expected ErrInvalidQuestion, got %v", err)
	}
}

func TestHealth(t *testing.T) {
	c, _ := New(newTestServer(t, &fakeSession{}, healthy()).URL)
	status, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if status.Status != "ok" || status.Checks["embedding"] != "ok" {
		t.Errorf("unexpected status %+v", status)
	}
}

func TestHealth_Degraded(t *testing.T) {
	report := healthuc.Report{Status: healthuc.Degraded, Checks: map[string]healthuc.CheckResult{
		"embedding":  healthuc.CheckOK,
		"generation": healthuc.CheckError,
	}}
	c, _ := New(newTestServer(t, &fakeSession{}, report).URL)

	status, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("degraded report should not be an error: %v", err)
	}
	if status.Status != "degraded" || status.Checks["generation"] != "error" {
		t.Errorf("unexpected status %+v", status)
	}
}

func TestNonJSONError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer ts.Close()

	c, _ := New(ts.URL, WithUserAgent("docqa-test"))
	_, err := c.Ask(context.Background(), "q")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadGateway || apiErr.Code != "bad_gateway" {
		t.Errorf("unexpected error %+v", apiErr)
	}
	if apiErr.Message != "upstream exploded" {
		t.Errorf("unexpected message %q", apiErr.Message)
	}
}

func TestWithHTTPClient_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer ts.Close()

	c, _ := New(ts.URL, WithHTTPClient(&http.Client{Timeout: 20 * time.Millisecond}))
	if _, err := c.Session(context.Background()); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestObserver_MetricsAndLogs(t *testing.T) {
	reg := prometheus.NewRegistry()
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	c, err := New(newTestServer(t, &fakeSession{}, healthy()).URL, WithMetrics(reg), WithLogger(logger))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, _ = c.Session(context.Background())
	_, _ = c.Ask(context.Background(), "q") // not ready

	if got := testutil.ToFloat64(c.obs.metrics.operations.WithLabelValues("session", "ok")); got != 1 {
		t.Errorf("session ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.obs.metrics.operations.WithLabelValues("ask", "error")); got != 1 {
		t.Errorf("ask error = %v, want 1", got)
	}
	if !strings.Contains(logs.String(), "operation failed") {
		t.Errorf("expected failure log, got %s", logs.String())
	}

	// A second client on the same registry reuses the collectors.
	if _, err := New("http://localhost:1", WithMetrics(reg)); err != nil {
		t.Fatalf("second client: %v", err)
	}
}
