package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counselingPayload() map[string]any {
	return map[string]any{
		"slug":             "counseling",
		"title":            "Counseling Session",
		"description":      "A 30-minute conversation.",
		"duration_minutes": 30,
		"availability": map[string]any{
			"monday":  []map[string]string{{"from": "09:00", "to": "12:00"}},
			"tuesday": []map[string]string{{"from": "14:00", "to": "16:00"}},
		},
		"questions": []map[string]any{
			{"label": "Reason for visit", "required": true},
		},
	}
}

func createEventType(t *testing.T, token string, payload map[string]any) string {
	w := executeRequest("POST", "/v1/event-types", payload, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		ID string `json:"id"`
	}
	decodeBody(t, w, &resp)
	require.NotEmpty(t, resp.ID)
	return resp.ID
}

func TestEventTypeCRUD(t *testing.T) {
	clearTables()
	p := createTestPastor(t, "john", "john@example.com", "password123")
	token := generateToken(p)

	id := createEventType(t, token, counselingPayload())

	// Slug is unique per pastor.
	w := executeRequest("POST", "/v1/event-types", counselingPayload(), token)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = executeRequest("GET", "/v1/event-types/"+id, nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = executeRequest("PATCH", "/v1/event-types/"+id, map[string]any{
		"title":            "Extended Counseling",
		"duration_minutes": 60,
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated struct {
		Title           string `json:"title"`
		DurationMinutes int    `json:"duration_minutes"`
	}
	decodeBody(t, w, &updated)
	assert.Equal(t, "Extended Counseling", updated.Title)
	assert.Equal(t, 60, updated.DurationMinutes)

	// Another pastor cannot touch it.
	other := createTestPastor(t, "jane", "jane@example.com", "password123")
	w = executeRequest("PATCH", "/v1/event-types/"+id, map[string]any{"title": "Hijacked"}, generateToken(other))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = executeRequest("DELETE", "/v1/event-types/"+id, nil, token)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = executeRequest("GET", "/v1/event-types/"+id, nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEventTypeValidation(t *testing.T) {
	clearTables()
	p := createTestPastor(t, "john", "john@example.com", "password123")
	token := generateToken(p)

	payload := counselingPayload()
	payload["duration_minutes"] = -15
	w := executeRequest("POST", "/v1/event-types", payload, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	payload = counselingPayload()
	payload["slug"] = "Bad Slug!"
	w = executeRequest("POST", "/v1/event-types", payload, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPublicEventTypeListing(t *testing.T) {
	clearTables()
	p := createTestPastor(t, "john", "john@example.com", "password123")
	token := generateToken(p)
	id := createEventType(t, token, counselingPayload())

	w := executeRequest("GET", "/v1/pastors/john/event-types", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Counseling Session")

	w = executeRequest("GET", "/v1/pastors/john/event-types/counseling", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	// Deactivated event types disappear from the public surface.
	w = executeRequest("PATCH", "/v1/event-types/"+id, map[string]any{"is_active": false}, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = executeRequest("GET", "/v1/pastors/john/event-types/counseling", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPublicSlots(t *testing.T) {
	clearTables()
	p := createTestPastor(t, "john", "john@example.com", "password123")
	createEventType(t, generateToken(p), counselingPayload())

	// 2030-01-07 is a Monday: 09:00-12:00 at 30 minutes = 6 slots.
	w := executeRequest("GET", "/v1/pastors/john/event-types/counseling/slots?date=2030-01-07", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Date  string `json:"date"`
		Slots []struct {
			StartTime string `json:"start_time"`
			IsBooked  bool   `json:"is_booked"`
		} `json:"slots"`
	}
	decodeBody(t, w, &resp)
	assert.Equal(t, "2030-01-07", resp.Date)
	require.Len(t, resp.Slots, 6)
	assert.Equal(t, "2030-01-07T09:00:00Z", resp.Slots[0].StartTime)

	// 2030-01-06 is a Sunday with no availability.
	w = executeRequest("GET", "/v1/pastors/john/event-types/counseling/slots?date=2030-01-06", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &resp)
	assert.Empty(t, resp.Slots)

	// Missing or malformed dates are rejected.
	w = executeRequest("GET", "/v1/pastors/john/event-types/counseling/slots", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = executeRequest("GET", "/v1/pastors/john/event-types/counseling/slots?date=07-01-2030", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
