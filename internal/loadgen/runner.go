package loadgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// tokenHeader carries the shared webhook secret
const tokenHeader = "X-Channable-Token"

// Runner sends generated orders to the webhook at the configured rate
type Runner struct {
	cfg       *Config
	client    *http.Client
	generator *OrderGenerator
	limiter   *rate.Limiter
	metrics   *Metrics
	logger    *zap.Logger
}

// RunnerOption configures a Runner
type RunnerOption func(*Runner)

// WithHTTPClient replaces the default client
func WithHTTPClient(client *http.Client) RunnerOption {
	return func(r *Runner) {
		r.client = client
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a runner for cfg; cfg must have its defaults applied
func NewRunner(cfg *Config, metrics *Metrics, opts ...RunnerOption) *Runner {
	r := &Runner{
		cfg:       cfg,
		client:    &http.Client{Timeout: cfg.Target.Timeout},
		generator: NewOrderGenerator(cfg),
		limiter:   rate.NewLimiter(rate.Limit(cfg.QPS), cfg.BurstSize),
		metrics:   metrics,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run sends orders until the configured duration elapsed or ctx is cancelled,
// then waits for in-flight requests.
func (r *Runner) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Duration)
	defer cancel()

	url := strings.TrimRight(r.cfg.Target.BaseURL, "/") + "/api/v1/channable/orders"
	jobs := make(chan struct{})

	var wg sync.WaitGroup
	for range r.cfg.Concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				r.sendOne(ctx, url)
			}
		}()
	}

	r.logger.Info("Load run started",
		zap.String("name", r.cfg.Name),
		zap.String("target", url),
		zap.Float64("qps", r.cfg.QPS),
		zap.Int("concurrency", r.cfg.Concurrency),
		zap.Duration("duration", r.cfg.Duration))

	for r.limiter.Wait(ctx) == nil {
		select {
		case jobs <- struct{}{}:
			continue
		case <-ctx.Done():
		}
		break
	}
	close(jobs)
	wg.Wait()

	// Wait also fails when the next slot lies past the deadline; both that and
	// reaching the deadline end the run normally.
	if err := ctx.Err(); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

func (r *Runner) sendOne(ctx context.Context, url string) {
	order, body, err := r.generator.NextBody()
	if err != nil {
		r.logger.Error("Failed to encode order", zap.Error(err))
		return
	}
	lvb := order.OrderStatus == "shipped"

	// in-flight requests finish even when the run deadline passes
	reqCtx := context.WithoutCancel(ctx)
	start := time.Now()
	status, code, err := r.post(reqCtx, url, body)
	elapsed := time.Since(start)
	r.metrics.Observe(status, code, lvb, len(order.Products), elapsed)

	if err != nil {
		r.logger.Warn("Order request failed", zap.Int64("channable_id", order.ChannableID), zap.Error(err))
		return
	}
	r.logger.Debug("Order sent",
		zap.Int64("channable_id", order.ChannableID),
		zap.Int64("store_id", order.StoreID),
		zap.Int("status", status),
		zap.String("error_code", code),
		zap.Duration("elapsed", elapsed))
}

// post returns the HTTP status and, for failed imports, the API error code
func (r *Runner) post(ctx context.Context, url string, body []byte) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if r.cfg.Target.Token != "" {
		req.Header.Set(tokenHeader, r.cfg.Target.Token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusBadRequest {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, "", nil
	}

	var envelope struct {
		Error *struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&envelope); err != nil || envelope.Error == nil {
		return resp.StatusCode, fmt.Sprintf("HTTP_%d", resp.StatusCode), nil
	}
	return resp.StatusCode, envelope.Error.Code, nil
}
