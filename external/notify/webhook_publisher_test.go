package notify

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AdrianaLegalReis/cartola-warehouse/internal/platform/logging"
	"github.com/AdrianaLegalReis/cartola-warehouse/internal/usecase"
)

func newTestPublisher(url string) *WebhookPublisher {
	return NewWebhookPublisher(WebhookPublisherConfig{
		URL:     url,
		Token:   "hook-token",
		Timeout: 2 * time.Second,
		Logger:  logging.NewNop(),
	})
}

func TestPublishRunSummary_PostsJSONWithBearerToken(t *testing.T) {
	t.Parallel()

	var gotAuth string
	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	publisher := newTestPublisher(server.URL)
	err := publisher.PublishRunSummary(context.Background(), usecase.RunSummary{RunID: "run-1", ScoresLoaded: 42})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotAuth != "Bearer hook-token" {
		t.Fatalf("unexpected authorization header: %q", gotAuth)
	}
	if !strings.Contains(gotBody, `"run_id":"run-1"`) {
		t.Fatalf("expected run id in body, got=%s", gotBody)
	}
	if !strings.Contains(gotBody, `"scores_loaded":42`) {
		t.Fatalf("expected scores count in body, got=%s", gotBody)
	}
}

func TestPublishRunSummary_NonRetryableStatusFailsFast(t *testing.T) {
	t.Parallel()

	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
	}))
	t.Cleanup(server.Close)

	publisher := newTestPublisher(server.URL)
	publisher.retries = 3

	err := publisher.PublishRunSummary(context.Background(), usecase.RunSummary{RunID: "run-2"})
	if err == nil {
		t.Fatal("expected an error for status 400")
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt for a non retryable status, got=%d", calls)
	}
}

func TestPublishRunSummary_RequiresURL(t *testing.T) {
	t.Parallel()

	publisher := newTestPublisher("")
	if err := publisher.PublishRunSummary(context.Background(), usecase.RunSummary{}); err == nil {
		t.Fatal("expected an error without a webhook url")
	}
}
