package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"applyforge/internal/domain/resume"

	"github.com/google/uuid"
)

// Client is the boundary to the external content generator. This service
// never generates text itself; it only validates and gates what the
// generator proposes.
type Client interface {
	GenerateVariant(ctx context.Context, req VariantRequest) (VariantDraft, error)
	GenerateCoverLetter(ctx context.Context, req CoverLetterRequest) (CoverLetterDraft, error)
}

type VariantRequest struct {
	PersonaID    uuid.UUID `json:"persona_id"`
	BaseResumeID uuid.UUID `json:"base_resume_id"`
	PostingID    uuid.UUID `json:"posting_id"`
}

type VariantDraft struct {
	SummaryOverride string                  `json:"summary_override"`
	Bullets         []resume.TailoredBullet `json:"bullets"`
	Skills          []string                `json:"skills"`
	BulletOrder     []uuid.UUID             `json:"bullet_order"`
	AgentReasoning  string                  `json:"agent_reasoning"`
}

type CoverLetterRequest struct {
	PersonaID uuid.UUID   `json:"persona_id"`
	PostingID uuid.UUID   `json:"posting_id"`
	VariantID *uuid.UUID  `json:"variant_id,omitempty"`
	StoryIDs  []uuid.UUID `json:"story_ids,omitempty"`
}

type CoverLetterDraft struct {
	Text     string      `json:"text"`
	StoryIDs []uuid.UUID `json:"story_ids"`
}

type httpClient struct {
	baseURL string
	client  *http.Client
	logger  *log.Logger
}

// NewClient returns nil when no base URL is configured; callers treat a nil
// client as "generation disabled" and only serve validation of existing drafts.
func NewClient(baseURL string, timeout time.Duration, logger *log.Logger) Client {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &httpClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *httpClient) GenerateVariant(ctx context.Context, req VariantRequest) (VariantDraft, error) {
	var out VariantDraft
	if err := c.post(ctx, "/generate/variant", req, &out); err != nil {
		return VariantDraft{}, err
	}
	return out, nil
}

func (c *httpClient) GenerateCoverLetter(ctx context.Context, req CoverLetterRequest) (CoverLetterDraft, error) {
	var out CoverLetterDraft
	if err := c.post(ctx, "/generate/cover-letter", req, &out); err != nil {
		return CoverLetterDraft{}, err
	}
	return out, nil
}

func (c *httpClient) post(ctx context.Context, path string, in any, out any) error {
	if c == nil {
		return errors.New("nil generator client")
	}
	if c.client == nil {
		return errors.New("nil http client")
	}
	endpoint := c.baseURL + path

	b, err := json.Marshal(in)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		bodyStr := strings.TrimSpace(string(rb))
		err := fmt.Errorf("generator call failed: status=%d body=%s", resp.StatusCode, bodyStr)
		if c.logger != nil {
			c.logger.Printf("[Generator] request error endpoint=%s status=%d body=%q", endpoint, resp.StatusCode, bodyStr)
		}
		return err
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

var _ Client = (*httpClient)(nil)
