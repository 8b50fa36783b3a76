package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/AdrianaLegalReis/cartola-warehouse/internal/platform/logging"
	"github.com/AdrianaLegalReis/cartola-warehouse/internal/platform/resilience"
	"github.com/AdrianaLegalReis/cartola-warehouse/internal/usecase"
)

var errWebhookTransient = crerr.New("webhook transient failure")

type WebhookPublisherConfig struct {
	URL            string
	Token          string
	Timeout        time.Duration
	Retries        int
	CaptureBody    bool
	BodyMaxBytes   int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// WebhookPublisher posts the summary of a finished pipeline run to an
// operator-configured HTTP hook.
type WebhookPublisher struct {
	client         *fasthttp.Client
	url            string
	token          string
	timeout        time.Duration
	retries        int
	captureBody    bool
	bodyMaxBytes   int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewWebhookPublisher(cfg WebhookPublisherConfig) *WebhookPublisher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	bodyMaxBytes := cfg.BodyMaxBytes
	if bodyMaxBytes <= 0 {
		bodyMaxBytes = 4096
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &WebhookPublisher{
		client:         &fasthttp.Client{ReadTimeout: timeout, WriteTimeout: timeout},
		url:            strings.TrimSpace(cfg.URL),
		token:          strings.TrimSpace(cfg.Token),
		timeout:        timeout,
		retries:        cfg.Retries,
		captureBody:    cfg.CaptureBody,
		bodyMaxBytes:   bodyMaxBytes,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (p *WebhookPublisher) PublishRunSummary(ctx context.Context, summary usecase.RunSummary) error {
	if p.url == "" {
		return crerr.New("webhook url is required")
	}
	if p.circuitEnabled {
		if err := p.breaker.Allow(); err != nil {
			p.logger.WarnContext(ctx, "webhook circuit breaker rejected request", "state", p.breaker.State())
			return fmt.Errorf("webhook is temporarily unavailable: %w", err)
		}
	}

	body, err := sonic.Marshal(summary)
	if err != nil {
		return crerr.Wrap(err, "marshal run summary")
	}
	previewBody := "(omitted)"
	if p.captureBody {
		previewBody = truncateForLog(string(body), p.bodyMaxBytes)
	}
	curlPreview := buildWebhookCurlPreview(p.url, previewBody, p.token != "")

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("webhook.url", p.url),
			attribute.String("webhook.run_id", summary.RunID),
			attribute.String("webhook.request_curl_preview", curlPreview),
		)
	}
	p.logger.InfoContext(ctx, "webhook publish request", "run_id", summary.RunID, "url", p.url, "curl_preview", curlPreview)

	callErr := p.send(ctx, body)
	p.recordCircuitResult(callErr)
	if callErr != nil {
		return callErr
	}

	p.logger.InfoContext(ctx, "run summary published", "run_id", summary.RunID)
	return nil
}

func (p *WebhookPublisher) send(ctx context.Context, body []byte) error {
	var lastErr error
	for attempt := 0; attempt <= p.retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		req := fasthttp.AcquireRequest()
		resp := fasthttp.AcquireResponse()
		req.SetRequestURI(p.url)
		req.Header.SetMethod(fasthttp.MethodPost)
		req.Header.SetContentType("application/json")
		if p.token != "" {
			req.Header.Set("Authorization", "Bearer "+p.token)
		}
		req.SetBody(body)

		err := p.client.DoTimeout(req, resp, p.timeout)
		status := resp.StatusCode()
		respBody := strings.TrimSpace(string(resp.Body()))
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)

		switch {
		case err != nil:
			lastErr = fmt.Errorf("%w: post run summary: %v", errWebhookTransient, err)
		case status/100 == 2:
			return nil
		case isWebhookRetryableStatus(status):
			lastErr = fmt.Errorf("%w: post run summary status=%d body=%s", errWebhookTransient, status, respBody)
		default:
			return fmt.Errorf("post run summary status=%d body=%s", status, respBody)
		}

		if attempt == p.retries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return lastErr
}

func (p *WebhookPublisher) recordCircuitResult(err error) {
	if !p.circuitEnabled {
		return
	}
	if err != nil && crerr.Is(err, errWebhookTransient) {
		p.breaker.RecordFailure()
		return
	}
	if err == nil {
		p.breaker.RecordSuccess()
	}
}

func isWebhookRetryableStatus(status int) bool {
	return status == fasthttp.StatusTooManyRequests || status >= 500
}

func buildWebhookCurlPreview(url, body string, withToken bool) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendPart := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}

	appendPart("curl")
	appendPart("-X")
	appendPart("POST")
	appendPart(shellQuote(url))
	appendPart("-H")
	appendPart(shellQuote("Content-Type: application/json"))
	if withToken {
		appendPart("-H")
		appendPart(shellQuote("Authorization: Bearer ***"))
	}
	appendPart("-d")
	appendPart(shellQuote(body))

	return buf.String()
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}

func truncateForLog(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}
