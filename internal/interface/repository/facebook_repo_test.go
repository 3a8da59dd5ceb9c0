package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"integration-hub/internal/domain/entity"
	"integration-hub/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFacebookGetLeads(t *testing.T) {
	var srv *httptest.Server
	var filtering string
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		switch r.URL.Query().Get("after") {
		case "":
			assert.Equal(t, "/v21.0/form-1/leads", r.URL.Path)
			assert.Equal(t, leadFields, r.URL.Query().Get("fields"))
			filtering = r.URL.Query().Get("filtering")
			fmt.Fprintf(w, `{"data":[
				{"id":"l1","created_time":"2025-01-01T17:30:00+0000","ad_id":"ad1","form_id":"form-1","field_data":[{"name":"email","values":["a@b.c"]}]},
				{"id":"l2","created_time":"2025-01-02T00:00:00+0000","form_id":"form-1","field_data":[]}
			],"paging":{"next":"%s/v21.0/form-1/leads?after=c1"}}`, srv.URL)
		default:
			w.Write([]byte(`{"data":[
				{"id":"l3","created_time":"2025-01-03T00:00:00+0000","form_id":"form-1","field_data":[]},
				{"id":"l4","created_time":"2025-01-04T00:00:00+0000","form_id":"form-1","field_data":[]}
			],"paging":{}}`))
		}
	}))
	defer srv.Close()

	repo := NewFacebookRepository(newRelayClient("facebook"), logger.NewNopLogger(), srv.URL, "v21.0", "token", "")

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, entity.Bangkok)
	end := time.Date(2025, 1, 5, 0, 0, 0, 0, entity.Bangkok)
	leads, err := repo.GetLeads(context.Background(), entity.LeadQuery{FormID: "form-1", Start: start, End: end, Limit: 3})
	require.NoError(t, err)

	require.Len(t, leads, 3)
	assert.Equal(t, "2025-01-02 00:30:00", leads[0].CreatedTime)
	assert.Equal(t, "ad1", leads[0].AdID)
	assert.Equal(t, []string{"a@b.c"}, leads[0].FieldData[0].Values)
	assert.Equal(t, "l3", leads[2].ID)

	var filters []graphFilter
	require.NoError(t, json.Unmarshal([]byte(filtering), &filters))
	require.Len(t, filters, 2)
	assert.Equal(t, "GREATER_THAN", filters[0].Operator)
	assert.Equal(t, start.Unix(), filters[0].Value)
	assert.Equal(t, "LESS_THAN", filters[1].Operator)
	assert.Equal(t, end.Unix(), filters[1].Value)
}

func TestFacebookSendEvents(t *testing.T) {
	var got struct {
		Data          []map[string]interface{} `json:"data"`
		TestEventCode string                   `json:"test_event_code"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v21.0/px-9/events", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"events_received":1}`))
	}))
	defer srv.Close()

	repo := NewFacebookRepository(newRelayClient("facebook"), logger.NewNopLogger(), srv.URL, "v21.0", "token", "TEST123").(*FacebookRepository)
	repo.now = func() time.Time { return time.Unix(1700000000, 0) }

	res, err := repo.SendEvents(context.Background(), "px-9", []entity.ServerEvent{{
		EventName: "Lead",
		UserData:  &entity.UserData{Em: []string{"  John@Example.com "}},
	}})
	require.NoError(t, err)
	assert.Equal(t, float64(1), res["events_received"])

	assert.Equal(t, "TEST123", got.TestEventCode)
	require.Len(t, got.Data, 1)
	assert.Equal(t, "website", got.Data[0]["action_source"])
	assert.Equal(t, float64(1700000000), got.Data[0]["event_time"])
	userData := got.Data[0]["user_data"].(map[string]interface{})
	assert.Equal(t, []interface{}{entity.HashIdentifier("john@example.com")}, userData["em"])
}

func TestFacebookSendEventsRejectsBadActionSource(t *testing.T) {
	repo := NewFacebookRepository(newRelayClient("facebook"), logger.NewNopLogger(), "http://unused", "v21.0", "token", "")

	_, err := repo.SendEvents(context.Background(), "px", []entity.ServerEvent{{
		EventName:    "Lead",
		ActionSource: "billboard",
		UserData:     &entity.UserData{},
	}})
	assert.ErrorIs(t, err, entity.ErrInvalidPayload)
}
