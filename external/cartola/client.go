package cartola

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/AdrianaLegalReis/cartola-warehouse/internal/platform/logging"
	"github.com/AdrianaLegalReis/cartola-warehouse/internal/platform/resilience"
	"github.com/AdrianaLegalReis/cartola-warehouse/internal/usecase"
)

const (
	defaultBaseURL = "https://api.cartola.globo.com"

	pathRounds    = "/rodadas"
	pathClubs     = "/clubes"
	pathPositions = "/posicoes"
	pathMatches   = "/partidas/"
	pathScores    = "/atletas/pontuados/"
)

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) FetchRounds(ctx context.Context) ([]usecase.ExternalRound, []byte, error) {
	var records []roundRecord
	raw, err := c.doJSON(ctx, pathRounds, &records)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch rounds: %w", err)
	}

	out := make([]usecase.ExternalRound, 0, len(records))
	for _, record := range records {
		if record.RodadaID <= 0 {
			continue
		}
		out = append(out, usecase.ExternalRound{
			ID:    record.RodadaID,
			Start: parseCartolaTime(record.Inicio),
			End:   parseCartolaTime(record.Fim),
			Name:  strings.TrimSpace(record.NomeRodada),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, raw, nil
}

func (c *Client) FetchClubs(ctx context.Context) ([]usecase.ExternalClub, []byte, error) {
	records := map[string]clubRecord{}
	raw, err := c.doJSON(ctx, pathClubs, &records)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch clubs: %w", err)
	}

	out := make([]usecase.ExternalClub, 0, len(records))
	for key, record := range records {
		id := record.ID
		if id <= 0 {
			id = parseMapKeyID(key)
		}
		if id <= 0 {
			continue
		}
		out = append(out, usecase.ExternalClub{
			ID:          id,
			Name:        strings.TrimSpace(record.Nome),
			Abbrev:      strings.TrimSpace(record.Abreviacao),
			Slug:        strings.TrimSpace(record.Slug),
			Nickname:    strings.TrimSpace(record.Apelido),
			DisplayName: strings.TrimSpace(record.NomeFantasia),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, raw, nil
}

func (c *Client) FetchPositions(ctx context.Context) ([]usecase.ExternalPosition, []byte, error) {
	records := map[string]positionRecord{}
	raw, err := c.doJSON(ctx, pathPositions, &records)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch positions: %w", err)
	}

	out := make([]usecase.ExternalPosition, 0, len(records))
	for key, record := range records {
		id := record.ID
		if id <= 0 {
			id = parseMapKeyID(key)
		}
		if id <= 0 {
			continue
		}
		out = append(out, usecase.ExternalPosition{
			ID:     id,
			Abbrev: strings.TrimSpace(record.Abreviacao),
			Name:   strings.TrimSpace(record.Nome),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, raw, nil
}

func (c *Client) FetchMatches(ctx context.Context, roundID int64) ([]usecase.ExternalMatch, []byte, error) {
	if roundID <= 0 {
		return nil, nil, fmt.Errorf("round id must be greater than zero")
	}

	var envelope matchesEnvelope
	path := pathMatches + strconv.FormatInt(roundID, 10)
	raw, err := c.doJSON(ctx, path, &envelope)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch matches round_id=%d: %w", roundID, err)
	}

	out := make([]usecase.ExternalMatch, 0, len(envelope.Partidas))
	for _, record := range envelope.Partidas {
		if record.PartidaID <= 0 {
			continue
		}
		out = append(out, usecase.ExternalMatch{
			ID:         record.PartidaID,
			Venue:      strings.TrimSpace(record.Local),
			Date:       parseCartolaTime(record.PartidaData),
			HomeScore:  intOrZero(record.PlacarOficialMandante),
			AwayScore:  intOrZero(record.PlacarOficialVisitante),
			HomeRank:   record.ClubeCasaPosicao,
			AwayRank:   record.ClubeVisitantePosicao,
			HomeClubID: record.ClubeCasaID,
			AwayClubID: record.ClubeVisitanteID,
			Valid:      record.Valida,
			RoundID:    roundID,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, raw, nil
}

func (c *Client) FetchScores(ctx context.Context, roundID int64) ([]usecase.ExternalScore, []byte, error) {
	if roundID <= 0 {
		return nil, nil, fmt.Errorf("round id must be greater than zero")
	}

	var envelope scoresEnvelope
	path := pathScores + strconv.FormatInt(roundID, 10)
	raw, err := c.doJSON(ctx, path, &envelope)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch scores round_id=%d: %w", roundID, err)
	}

	out := make([]usecase.ExternalScore, 0, len(envelope.Atletas))
	for _, record := range envelope.Atletas {
		apelido := strings.TrimSpace(record.Apelido)
		if apelido == "" {
			continue
		}
		out = append(out, usecase.ExternalScore{
			Apelido:    apelido,
			Points:     roundScore(record.Pontuacao),
			PositionID: record.PosicaoID,
			ClubID:     record.ClubeID,
			Played:     record.EntrouEmCampo,
			RoundID:    roundID,
			Scout:      record.Scout,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Apelido != out[j].Apelido {
			return out[i].Apelido < out[j].Apelido
		}
		return out[i].ClubID < out[j].ClubID
	})

	return out, raw, nil
}

func (c *Client) doJSON(ctx context.Context, path string, target any) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "cartola circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: statistics provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	fullURL := c.baseURL + path
	out, err, _ := c.flight.Do(path, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isCartolaCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return nil, fmt.Errorf("decode provider payload: %w", err)
	}

	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errCartolaTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errCartolaTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errCartolaTransient, resp.StatusCode, abbreviateBody(raw))
			case resp.StatusCode >= 400 && resp.StatusCode < 500:
				// The provider answers 404 for rounds not yet played.
				return nil, fmt.Errorf("%w: provider status=%d", ErrNotFound, resp.StatusCode)
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "cartola request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isCartolaCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errCartolaTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

// roundScore normalizes a nullable provider score to 2-decimal fixed point,
// matching the scoring authority's official rounding.
func roundScore(value *float64) float64 {
	if value == nil {
		return 0
	}
	return math.Round(*value*100) / 100
}

func parseCartolaTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{
		"2006-01-02 15:04:05",
		time.RFC3339,
		"2006-01-02",
	} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func parseMapKeyID(key string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(key), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func intOrZero(value *int) int {
	if value == nil {
		return 0
	}
	return *value
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
