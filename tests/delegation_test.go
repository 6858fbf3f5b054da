package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelegationFlow(t *testing.T) {
	clearTables()
	owner := createTestPastor(t, "john", "john@example.com", "password123")
	delegate := createTestPastor(t, "jane", "jane@example.com", "password123")
	ownerToken := generateToken(owner)
	delegateToken := generateToken(delegate)

	createEventType(t, ownerToken, counselingPayload())
	w := executeRequest("POST", "/v1/bookings", bookingPayload("2030-01-07T09:00:00Z"), "")
	require.Equal(t, http.StatusCreated, w.Code)

	// Before any delegation, jane cannot read john's agenda.
	w = executeRequest("GET", "/v1/bookings?pastor_id="+owner.ID, nil, delegateToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// John invites jane.
	w = executeRequest("POST", "/v1/delegations", map[string]any{"email": "jane@example.com"}, ownerToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var inv struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decodeBody(t, w, &inv)
	assert.Equal(t, "pending", inv.Status)

	// Self-invitations and duplicates are rejected.
	w = executeRequest("POST", "/v1/delegations", map[string]any{"email": "john@example.com"}, ownerToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = executeRequest("POST", "/v1/delegations", map[string]any{"email": "jane@example.com"}, ownerToken)
	assert.Equal(t, http.StatusConflict, w.Code)

	// A pending invitation grants nothing yet.
	w = executeRequest("GET", "/v1/bookings?pastor_id="+owner.ID, nil, delegateToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Only the invitee can respond.
	w = executeRequest("POST", "/v1/delegations/"+inv.ID+"/accept", nil, ownerToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Jane sees and accepts it.
	w = executeRequest("GET", "/v1/delegations/received", nil, delegateToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), inv.ID)

	w = executeRequest("POST", "/v1/delegations/"+inv.ID+"/accept", nil, delegateToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Now the agenda is readable.
	w = executeRequest("GET", "/v1/bookings?pastor_id="+owner.ID, nil, delegateToken)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Total int `json:"total"`
	}
	decodeBody(t, w, &page)
	assert.Equal(t, 1, page.Total)

	// And exportable as an ICS feed.
	w = executeRequest("GET", "/v1/me/agenda.ics?pastor_id="+owner.ID, nil, delegateToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/calendar")
	assert.Contains(t, w.Body.String(), "BEGIN:VCALENDAR")
	assert.Contains(t, w.Body.String(), "Counseling Session with Alice")

	// Revoking cuts access immediately.
	w = executeRequest("DELETE", "/v1/delegations/"+inv.ID, nil, ownerToken)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = executeRequest("GET", "/v1/bookings?pastor_id="+owner.ID, nil, delegateToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeclinedInvitationGrantsNothing(t *testing.T) {
	clearTables()
	owner := createTestPastor(t, "john", "john@example.com", "password123")
	delegate := createTestPastor(t, "jane", "jane@example.com", "password123")
	ownerToken := generateToken(owner)
	delegateToken := generateToken(delegate)

	w := executeRequest("POST", "/v1/delegations", map[string]any{"email": "jane@example.com"}, ownerToken)
	require.Equal(t, http.StatusCreated, w.Code)
	var inv struct {
		ID string `json:"id"`
	}
	decodeBody(t, w, &inv)

	w = executeRequest("POST", "/v1/delegations/"+inv.ID+"/decline", nil, delegateToken)
	require.Equal(t, http.StatusOK, w.Code)

	w = executeRequest("GET", "/v1/bookings?pastor_id="+owner.ID, nil, delegateToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// A declined invitation cannot be accepted afterwards.
	w = executeRequest("POST", "/v1/delegations/"+inv.ID+"/accept", nil, delegateToken)
	assert.Equal(t, http.StatusConflict, w.Code)
}
