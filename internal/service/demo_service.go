package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type DemoRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Company  string `json:"company" validate:"required"`
	JobTitle string `json:"job_title,omitempty"`
	Message  string `json:"message,omitempty"`
}

// DemoService forwards demo requests from the marketing site to the external
// form-submission endpoint. Fire-and-forget from the product's point of view:
// the caller only learns success or failure.
type DemoService struct {
	endpoint  string
	accessKey string
	client    *http.Client
	logger    *zap.Logger
}

func NewDemoService(endpoint, accessKey string, timeout time.Duration, logger *zap.Logger) *DemoService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &DemoService{
		endpoint:  endpoint,
		accessKey: accessKey,
		client:    &http.Client{Timeout: timeout},
		logger:    logger,
	}
}

func (s *DemoService) Submit(ctx context.Context, req DemoRequest) error {
	payload := map[string]string{
		"access_key": s.accessKey,
		"name":       req.Name,
		"email":      req.Email,
		"company":    req.Company,
		"job_title":  req.JobTitle,
		"message":    req.Message,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode demo request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build demo request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("submit demo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.logger.Warn("demo request rejected", zap.Int("status", resp.StatusCode))
		return fmt.Errorf("demo request rejected with status %d", resp.StatusCode)
	}

	s.logger.Info("demo request submitted", zap.String("company", req.Company))
	return nil
}
