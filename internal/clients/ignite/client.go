// Package ignite fetches the raw session catalog from the Ignite session API.
package ignite

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/confpulse/confpulse-backend/internal/logger"
	"github.com/confpulse/confpulse-backend/internal/utils"
)

const defaultAPIURL = "https://api-v2.ignite.microsoft.com/api/session/all/en-US"

// maxCatalogBytes bounds the response body; the full catalog is a few tens of
// megabytes at most.
const maxCatalogBytes = 256 << 20

// Option is a vendor (logicalValue, displayValue) pair. Either side may be
// missing; normalization happens in the ingestion service.
type Option struct {
	DisplayValue string `json:"displayValue"`
	LogicalValue string `json:"logicalValue"`
}

type SpeakerType struct {
	SpeakerType   string `json:"SpeakerType"`
	SpeakerID     string `json:"SpeakerId"`
	RegistrantKey string `json:"RegistrantKey"`
}

// Session mirrors the upstream catalog record shape.
type Session struct {
	SessionID         string        `json:"sessionId"`
	SessionInstanceID *string       `json:"sessionInstanceId"`
	LocalizedID       *string       `json:"localizedId"`
	SessionCode       *string       `json:"sessionCode"`
	LangLocale        *string       `json:"langLocale"`
	Title             string        `json:"title"`
	SortTitle         *string       `json:"sortTitle"`
	Description       *string       `json:"description"`
	AIDescription     *string       `json:"aiDescription"`
	Location          *string       `json:"location"`
	TimeSlot          *string       `json:"TimeSlot"`
	StartDateTime     *string       `json:"startDateTime"`
	EndDateTime       *string       `json:"endDateTime"`
	DurationInMinutes *int          `json:"durationInMinutes"`
	SessionType       *Option       `json:"sessionType"`
	ReportingTopic    *string       `json:"reportingTopic"`
	OnDemand          *string       `json:"onDemand"`
	DownloadVideoLink *string       `json:"downloadVideoLink"`
	CaptionFileLink   *string       `json:"captionFileLink"`
	OnDemandThumbnail *string       `json:"onDemandThumbnail"`
	RegistrationLink  *string       `json:"registrationLink"`
	HasOnDemand       *bool         `json:"hasOnDemand"`
	IsPopular         *bool         `json:"isPopular"`
	HeroSession       *bool         `json:"heroSession"`
	Topic             []Option      `json:"topic"`
	Tags              []Option      `json:"tags"`
	SessionLevel      []Option      `json:"sessionLevel"`
	AudienceTypes     []Option      `json:"audienceTypes"`
	Industry          []Option      `json:"industry"`
	DeliveryTypes     []Option      `json:"deliveryTypes"`
	ViewingOptions    []Option      `json:"viewingOptions"`
	SpeakerNames      *string       `json:"speakerNames"`
	SpeakerIDs        []string      `json:"speakerIds"`
	SpeakerTypes      []SpeakerType `json:"SpeakerTypes"`
	AssociatedCompanies []string    `json:"associatedCompanies"`
}

type Client struct {
	apiURL     string
	httpClient *http.Client
	log        *logger.Logger
}

func NewClient(log *logger.Logger) *Client {
	clientLog := log.With("client", "IgniteClient")
	timeout := utils.GetEnvAsInt("IGNITE_HTTP_TIMEOUT_SECONDS", 60, log)
	return &Client{
		apiURL:     utils.GetEnv("IGNITE_API_URL", defaultAPIURL, log),
		httpClient: &http.Client{Timeout: time.Duration(timeout) * time.Second},
		log:        clientLog,
	}
}

// FetchSessions pulls the full catalog. A non-2xx status is returned as an
// error; the ingestion handler maps it to a 502.
func (c *Client) FetchSessions(ctx context.Context) ([]Session, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch ignite sessions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch ignite sessions: http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogBytes))
	if err != nil {
		return nil, fmt.Errorf("read ignite catalog: %w", err)
	}

	var sessions []Session
	if err := json.Unmarshal(body, &sessions); err != nil {
		return nil, fmt.Errorf("decode ignite catalog: %w", err)
	}

	c.log.Info("Fetched Ignite catalog", "sessions", len(sessions))
	return sessions, nil
}
