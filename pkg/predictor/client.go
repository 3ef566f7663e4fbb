package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// UrineSample holds the measurements sent to the deployed kidney-stone
// scoring endpoint.
type UrineSample struct {
	Gravity      float64 `json:"gravity" binding:"required"`
	PH           float64 `json:"ph" binding:"required"`
	Osmolality   float64 `json:"osmo" binding:"required"`
	Conductivity float64 `json:"cond" binding:"required"`
	Urea         float64 `json:"urea" binding:"required"`
	Calcium      float64 `json:"calc" binding:"required"`
}

// Prediction is the normalized result of a scoring call.
type Prediction struct {
	Label       string  `json:"label"`
	Probability float64 `json:"probability"`
}

// Client scores samples against a deployed model endpoint. It is
// constructed once at startup and injected where needed; there is no
// process-wide lazy singleton.
type Client interface {
	Score(ctx context.Context, sample UrineSample) (*Prediction, error)
}

type Config struct {
	DeploymentURL string
	APIKey        string
	Timeout       time.Duration
}

type client struct {
	cfg        Config
	httpClient *http.Client
	logger     *zerolog.Logger
}

func NewClient(cfg Config, logger *zerolog.Logger) Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// scoringRequest mirrors the payload shape the managed AutoML service
// expects: parallel field/value arrays per row.
type scoringRequest struct {
	InputData []inputData `json:"input_data"`
}

type inputData struct {
	Fields []string    `json:"fields"`
	Values [][]float64 `json:"values"`
}

type scoringResponse struct {
	Predictions []struct {
		Fields []string        `json:"fields"`
		Values [][]interface{} `json:"values"`
	} `json:"predictions"`
}

func (c *client) Score(ctx context.Context, sample UrineSample) (*Prediction, error) {
	payload := scoringRequest{
		InputData: []inputData{{
			Fields: []string{"gravity", "ph", "osmo", "cond", "urea", "calc"},
			Values: [][]float64{{
				sample.Gravity,
				sample.PH,
				sample.Osmolality,
				sample.Conductivity,
				sample.Urea,
				sample.Calcium,
			}},
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scoring payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.DeploymentURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create scoring request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scoring request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scoring endpoint returned status %d", resp.StatusCode)
	}

	var scored scoringResponse
	if err := json.NewDecoder(resp.Body).Decode(&scored); err != nil {
		return nil, fmt.Errorf("failed to decode scoring response: %w", err)
	}

	prediction, err := parsePrediction(&scored)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("label", prediction.Label).
		Float64("probability", prediction.Probability).
		Msg("scored sample")

	return prediction, nil
}

// parsePrediction pulls the predicted class and its probability out of
// the endpoint's row-oriented response. The first value is the class
// label, the second a per-class probability vector.
func parsePrediction(resp *scoringResponse) (*Prediction, error) {
	if len(resp.Predictions) == 0 || len(resp.Predictions[0].Values) == 0 {
		return nil, fmt.Errorf("scoring response contained no predictions")
	}

	row := resp.Predictions[0].Values[0]
	if len(row) < 2 {
		return nil, fmt.Errorf("malformed prediction row")
	}

	label := fmt.Sprintf("%v", row[0])

	probs, ok := row[1].([]interface{})
	if !ok {
		return nil, fmt.Errorf("malformed probability vector")
	}

	var max float64
	for _, p := range probs {
		if v, ok := p.(float64); ok && v > max {
			max = v
		}
	}

	return &Prediction{
		Label:       label,
		Probability: max,
	}, nil
}
