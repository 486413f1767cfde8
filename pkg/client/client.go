// Package client содержит Go клиент для HTTP API решателя.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"flownet/pkg/apperror"
)

// Config конфигурация клиента
type Config struct {
	BaseURL      string
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
	APIKey       string
	APIKeyHeader string
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *Config {
	return &Config{
		BaseURL:      "http://localhost:8080",
		Timeout:      30 * time.Second,
		MaxRetries:   3,
		RetryBackoff: 100 * time.Millisecond,
		APIKeyHeader: "X-Api-Key",
	}
}

// SolverClient клиент solver-svc
type SolverClient struct {
	cfg  *Config
	http *http.Client
}

// New создаёт нового клиента
func New(cfg *Config) *SolverClient {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.APIKeyHeader == "" {
		cfg.APIKeyHeader = "X-Api-Key"
	}
	return &SolverClient{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Field   string `json:"field"`
	} `json:"error"`
}

// do выполняет запрос с повторами. Повторяются только сетевые сбои и
// ответы 5xx; ошибки валидации отдаются сразу.
func (c *SolverClient) do(ctx context.Context, method, path string, in, out any) error {
	var body []byte
	if in != nil {
		var err error
		body, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}

	var lastErr error
	attempts := c.cfg.MaxRetries + 1
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.cfg.RetryBackoff * time.Duration(attempt)):
			}
		}

		retryable, err := c.doOnce(ctx, method, path, body, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable {
			return err
		}
	}

	return lastErr
}

func (c *SolverClient) doOnce(ctx context.Context, method, path string, body []byte, out any) (bool, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return false, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.APIKey != "" {
		req.Header.Set(c.cfg.APIKeyHeader, c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return true, fmt.Errorf("solver request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 500 {
		return true, decodeAPIError(resp)
	}
	if resp.StatusCode >= 400 {
		return false, decodeAPIError(resp)
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return false, fmt.Errorf("decode response: %w", err)
		}
	}

	return false, nil
}

func decodeAPIError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	var ae apiError
	if err := json.Unmarshal(data, &ae); err == nil && ae.Error.Code != "" {
		if ae.Error.Field != "" {
			return apperror.NewWithField(apperror.ErrorCode(ae.Error.Code), ae.Error.Message, ae.Error.Field)
		}
		return apperror.New(apperror.ErrorCode(ae.Error.Code), ae.Error.Message)
	}

	return fmt.Errorf("solver returned status %d: %s", resp.StatusCode, string(data))
}
