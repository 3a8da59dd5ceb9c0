package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"integration-hub/internal/domain/entity"
	"integration-hub/internal/domain/repository"
	"integration-hub/internal/interface/relay"
	"integration-hub/pkg/logger"
)

const (
	leadFields    = "created_time,field_data,ad_id,form_id"
	maxLeadPage   = 100
	graphTimeForm = "2006-01-02T15:04:05-0700"
)

// FacebookRepository talks to the Graph API for lead forms and pixels
type FacebookRepository struct {
	client        *relay.Client
	logger        logger.Logger
	graphURL      string
	version       string
	accessToken   string
	testEventCode string
	now           func() time.Time
}

// NewFacebookRepository creates a new Facebook repository
func NewFacebookRepository(client *relay.Client, logger logger.Logger, graphURL, version, accessToken, testEventCode string) repository.FacebookRepository {
	return &FacebookRepository{
		client:        client,
		logger:        logger,
		graphURL:      strings.TrimRight(graphURL, "/"),
		version:       version,
		accessToken:   accessToken,
		testEventCode: testEventCode,
		now:           time.Now,
	}
}

type graphLead struct {
	ID          string             `json:"id"`
	CreatedTime string             `json:"created_time"`
	AdID        string             `json:"ad_id"`
	FormID      string             `json:"form_id"`
	FieldData   []entity.LeadField `json:"field_data"`
}

type graphLeadPage struct {
	Data   []graphLead `json:"data"`
	Paging struct {
		Next string `json:"next"`
	} `json:"paging"`
}

type graphFilter struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    int64  `json:"value"`
}

// GetLeads returns up to query.Limit leads of a form, following Graph API
// paging. Created times are reported in Bangkok time.
func (r *FacebookRepository) GetLeads(ctx context.Context, query entity.LeadQuery) ([]entity.Lead, error) {
	if r.accessToken == "" {
		return nil, fmt.Errorf("facebook: %w", relay.ErrNotConfigured)
	}
	if query.FormID == "" {
		return nil, fmt.Errorf("%w: form id is required", entity.ErrInvalidPayload)
	}
	if query.Limit <= 0 {
		query.Limit = maxLeadPage
	}

	var filters []graphFilter
	if !query.Start.IsZero() {
		filters = append(filters, graphFilter{Field: "time_created", Operator: "GREATER_THAN", Value: query.Start.Unix()})
	}
	if !query.End.IsZero() {
		filters = append(filters, graphFilter{Field: "time_created", Operator: "LESS_THAN", Value: query.End.Unix()})
	}

	params := url.Values{}
	params.Set("fields", leadFields)
	params.Set("limit", strconv.Itoa(min(query.Limit, maxLeadPage)))
	if len(filters) > 0 {
		raw, err := json.Marshal(filters)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal lead filters: %w", err)
		}
		params.Set("filtering", string(raw))
	}

	next := fmt.Sprintf("%s/%s/%s/leads?%s", r.graphURL, r.version, url.PathEscape(query.FormID), params.Encode())
	leads := make([]entity.Lead, 0)
	for next != "" && len(leads) < query.Limit {
		var page graphLeadPage
		err := r.client.DoJSON(ctx, relay.Request{
			Operation: "get_leads",
			Method:    http.MethodGet,
			URL:       next,
			Header:    r.authHeader(),
		}, &page)
		if err != nil {
			return nil, fmt.Errorf("facebook get leads: %w", err)
		}

		for _, l := range page.Data {
			if len(leads) == query.Limit {
				break
			}
			leads = append(leads, entity.Lead{
				ID:          l.ID,
				CreatedTime: toBangkok(l.CreatedTime),
				AdID:        l.AdID,
				FormID:      l.FormID,
				FieldData:   l.FieldData,
			})
		}
		if len(page.Data) == 0 {
			break
		}
		next = page.Paging.Next
	}

	r.logger.Info("Fetched leads", "formId", query.FormID, "count", len(leads))
	return leads, nil
}

func (r *FacebookRepository) authHeader() http.Header {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+r.accessToken)
	return header
}

// toBangkok reformats a Graph API timestamp in UTC+7, keeping the raw value
// if it does not parse.
func toBangkok(created string) string {
	t, err := time.Parse(graphTimeForm, created)
	if err != nil {
		return created
	}
	return t.In(entity.Bangkok).Format(entity.LeadTimeLayout)
}

// SendEvents sends server events to a pixel through the Conversions API
func (r *FacebookRepository) SendEvents(ctx context.Context, pixelID string, events []entity.ServerEvent) (map[string]interface{}, error) {
	if r.accessToken == "" {
		return nil, fmt.Errorf("facebook: %w", relay.ErrNotConfigured)
	}
	if pixelID == "" {
		return nil, fmt.Errorf("%w: pixel id is required", entity.ErrInvalidPayload)
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("%w: at least one event is required", entity.ErrInvalidPayload)
	}

	now := r.now()
	for i := range events {
		if err := events[i].Prepare(now); err != nil {
			return nil, fmt.Errorf("%w: event %d: %v", entity.ErrInvalidPayload, i, err)
		}
	}

	body := map[string]interface{}{"data": events}
	if r.testEventCode != "" {
		body["test_event_code"] = r.testEventCode
	}

	var response map[string]interface{}
	err := r.client.DoJSON(ctx, relay.Request{
		Operation: "send_events",
		Method:    http.MethodPost,
		URL:       fmt.Sprintf("%s/%s/%s/events", r.graphURL, r.version, url.PathEscape(pixelID)),
		Header:    r.authHeader(),
		Body:      body,
	}, &response)
	if err != nil {
		return nil, fmt.Errorf("facebook send events: %w", err)
	}

	r.logger.Info("Events created successfully", "pixelId", pixelID, "count", len(events))
	return response, nil
}
