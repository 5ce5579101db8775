package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetroom/internal/booking"
	"meetroom/internal/cache"
	"meetroom/internal/model"
	"meetroom/internal/notify"
	"meetroom/internal/store"
)

type apiFixture struct {
	router *gin.Engine
	db     *store.DB
	room   *model.Room
	owner  *model.User
	admin  *model.User
}

type nopDispatcher struct{}

func (nopDispatcher) Dispatch(notify.Event) {}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	db, err := store.New(filepath.Join(t.TempDir(), "meetroom.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	owner := &model.User{DisplayName: "Alice"}
	require.NoError(t, db.CreateUser(ctx, owner))
	admin := &model.User{DisplayName: "Root", IsAdmin: true}
	require.NoError(t, db.CreateUser(ctx, admin))
	room := &model.Room{Name: "Conference A", Capacity: 10}
	require.NoError(t, db.CreateRoom(ctx, room))

	engine := booking.NewEngine(db, nopDispatcher{}, zerolog.Nop())
	router := NewRouter(engine, db, cache.NewCalendar(nil, 0), zerolog.Nop())

	return &apiFixture{router: router, db: db, room: room, owner: owner, admin: admin}
}

func (f *apiFixture) do(t *testing.T, method, path string, user *model.User, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != nil {
		req.Header.Set("X-User-ID", fmt.Sprint(user.ID))
		req.Header.Set("X-User-Name", user.DisplayName)
		if user.IsAdmin {
			req.Header.Set("X-User-Admin", "true")
		}
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

// Booking times sit far in the future so the past-start guard never trips.
func apiSlot(hour int) time.Time {
	return time.Date(2030, 6, 3, hour, 0, 0, 0, time.UTC)
}

func createBody(roomID int64, startHour, endHour int) gin.H {
	return gin.H{
		"room_id":      roomID,
		"title":        "standup",
		"start":        apiSlot(startHour),
		"end":          apiSlot(endHour),
		"participants": 5,
	}
}

func TestIdentityRequired(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodGet, "/api/v1/rooms", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateBookingEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/api/v1/bookings", f.owner, createBody(f.room.ID, 9, 10))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		SeriesID string          `json:"series_id"`
		Bookings []model.Booking `json:"bookings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SeriesID)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, model.StatusApproved, resp.Bookings[0].Status)
}

func TestCreateBookingConflictResponse(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/api/v1/bookings", f.owner, createBody(f.room.ID, 9, 10))
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/bookings", f.owner, createBody(f.room.ID, 9, 11))
	require.Equal(t, http.StatusConflict, w.Code)

	var resp struct {
		Conflicts []string `json:"conflicts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Conflicts, 1)
	ts, err := time.Parse(time.RFC3339, resp.Conflicts[0])
	require.NoError(t, err)
	assert.Equal(t, apiSlot(9), ts.UTC())
}

func TestCreateBookingCapacityResponse(t *testing.T) {
	f := newAPIFixture(t)

	body := createBody(f.room.ID, 9, 10)
	body["participants"] = 50
	w := f.do(t, http.MethodPost, "/api/v1/bookings", f.owner, body)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCreateBookingParticipantsBelowOne(t *testing.T) {
	f := newAPIFixture(t)

	body := createBody(f.room.ID, 9, 10)
	body["participants"] = -1
	w := f.do(t, http.MethodPost, "/api/v1/bookings", f.owner, body)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
}

func TestCreateBookingBadPayload(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/api/v1/bookings", f.owner, gin.H{"title": "no room"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecurringBookingEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	body := createBody(f.room.ID, 9, 10)
	body["recurrence"] = gin.H{"kind": "weekly", "end_date": "2030-06-17"}
	w := f.do(t, http.MethodPost, "/api/v1/bookings", f.owner, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		SeriesID string          `json:"series_id"`
		Bookings []model.Booking `json:"bookings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Bookings, 3)

	// Cancel the whole series in one call.
	w = f.do(t, http.MethodPost, "/api/v1/series/"+resp.SeriesID+"/cancel", f.owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cancelResp struct {
		Cancelled int `json:"cancelled"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cancelResp))
	assert.Equal(t, 3, cancelResp.Cancelled)
}

func TestApprovalFlowEndpoints(t *testing.T) {
	f := newAPIFixture(t)

	body := createBody(f.room.ID, 9, 10)
	body["notes"] = "board meeting"
	w := f.do(t, http.MethodPost, "/api/v1/bookings", f.owner, body)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Bookings []model.Booking `json:"bookings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	id := resp.Bookings[0].ID
	require.Equal(t, model.StatusPending, resp.Bookings[0].Status)

	// The owner cannot decide their own booking.
	w = f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/bookings/%d/approve", id), f.owner, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/bookings/%d/approve", id), f.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var b model.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
	assert.Equal(t, model.StatusApproved, b.Status)

	// Deciding twice conflicts with the lifecycle.
	w = f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/bookings/%d/reject", id), f.admin, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetBookingEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodGet, "/api/v1/bookings/999", f.owner, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/bookings/abc", f.owner, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateRoomAdminOnly(t *testing.T) {
	f := newAPIFixture(t)

	body := gin.H{"name": "Conference B", "capacity": 4}
	w := f.do(t, http.MethodPost, "/api/v1/rooms", f.owner, body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/rooms", f.admin, body)
	require.Equal(t, http.StatusCreated, w.Code)

	var room model.Room
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &room))
	assert.NotZero(t, room.ID)
	assert.Equal(t, "Conference B", room.Name)
}

func TestRoomCalendarEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/api/v1/bookings", f.owner, createBody(f.room.ID, 9, 10))
	require.Equal(t, http.StatusCreated, w.Code)

	path := fmt.Sprintf("/api/v1/rooms/%d/calendar?from=%s&to=%s",
		f.room.ID,
		apiSlot(0).Format(time.RFC3339),
		apiSlot(23).Format(time.RFC3339),
	)
	w = f.do(t, http.MethodGet, path, f.owner, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Bookings []model.Booking `json:"bookings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, "standup", resp.Bookings[0].Title)
}

func TestSubscriptionEndpoints(t *testing.T) {
	f := newAPIFixture(t)

	sub := gin.H{"endpoint": "https://push.example/ep1", "p256dh": "key", "auth": "auth"}
	w := f.do(t, http.MethodPut, "/api/v1/subscriptions", f.owner, sub)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	subs, err := f.db.ListPushSubscriptions(context.Background())
	require.NoError(t, err)
	require.Len(t, subs, 1)

	w = f.do(t, http.MethodDelete, "/api/v1/subscriptions?endpoint=https://push.example/ep1", f.owner, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	subs, err = f.db.ListPushSubscriptions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, subs)
}
