package poller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegisworks/aegis-api/internal/models"
	appErrors "github.com/aegisworks/aegis-api/pkg/errors"
	"github.com/aegisworks/aegis-api/pkg/response"
)

func newPortalStub(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func writeEnvelope(t *testing.T, w http.ResponseWriter, data interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(response.Envelope{Data: data}))
}

func TestClientPendingRequests(t *testing.T) {
	var gotAuth string
	server := newPortalStub(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.Equal(t, "/api/session-requests/guide-1", r.URL.Path)
		writeEnvelope(t, w, []models.SessionRequest{{ID: "req-1", Status: models.RequestPending}})
	})

	client := NewClient(server.URL, time.Second)
	client.SetToken("token-abc")

	pending, err := client.PendingRequests(context.Background(), "guide-1")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "req-1", pending[0].ID)
	assert.Equal(t, "Bearer token-abc", gotAuth)
}

func TestClientSurfacesPortalErrors(t *testing.T) {
	server := newPortalStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(response.Envelope{Error: appErrors.ErrInvalidState})
	})

	client := NewClient(server.URL, time.Second)
	_, err := client.PendingRequests(context.Background(), "guide-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidState))
}

func TestClientUnreachablePortal(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 100*time.Millisecond)
	_, err := client.PendingRequests(context.Background(), "guide-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrDependency))
}

func TestGuidePollerDeliversAndStops(t *testing.T) {
	server := newPortalStub(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, []models.SessionRequest{{ID: "req-1"}})
	})

	delivered := make(chan []models.SessionRequest, 8)
	client := NewClient(server.URL, time.Second)
	poller := NewGuidePoller(client, "guide-1", 10*time.Millisecond, func(reqs []models.SessionRequest) {
		delivered <- reqs
	}, nil)

	poller.Start(context.Background())

	select {
	case reqs := <-delivered:
		require.Len(t, reqs, 1)
		assert.Equal(t, "req-1", reqs[0].ID)
	case <-time.After(time.Second):
		t.Fatal("poller never delivered")
	}

	poller.Stop()

	// No deliveries after Stop returns.
	drained := len(delivered)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, drained, len(delivered))
}

func TestClientMarkRead(t *testing.T) {
	var gotMethod, gotPath string
	server := newPortalStub(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		writeEnvelope(t, w, nil)
	})

	client := NewClient(server.URL, time.Second)
	require.NoError(t, client.MarkRead(context.Background(), "notif-1"))
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/api/notifications/notif-1/read", gotPath)
}

func TestGuidePollerSkipsTicksWhileSlow(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	server := newPortalStub(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		<-release
		writeEnvelope(t, w, []models.SessionRequest{})
	})

	client := NewClient(server.URL, time.Second)
	poller := NewGuidePoller(client, "guide-1", 10*time.Millisecond, func([]models.SessionRequest) {}, nil)

	poller.Start(context.Background())

	// Many intervals elapse while the first round trip is stuck; none of
	// them may start another request.
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())

	close(release)
	poller.Stop()
}

func TestGuidePollerSurvivesPortalFailures(t *testing.T) {
	var calls atomic.Int32
	server := newPortalStub(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			json.NewEncoder(w).Encode(response.Envelope{Error: appErrors.ErrDependency})
			return
		}
		writeEnvelope(t, w, []models.SessionRequest{{ID: "req-2"}})
	})

	delivered := make(chan []models.SessionRequest, 8)
	client := NewClient(server.URL, time.Second)
	poller := NewGuidePoller(client, "guide-1", 10*time.Millisecond, func(reqs []models.SessionRequest) {
		delivered <- reqs
	}, nil)

	poller.Start(context.Background())
	defer poller.Stop()

	select {
	case reqs := <-delivered:
		assert.Equal(t, "req-2", reqs[0].ID)
	case <-time.After(time.Second):
		t.Fatal("poller never recovered from failed tick")
	}
}

func TestProgrammerPollerLoopsAreIndependent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/notifications/:user_id", func(c *gin.Context) {
		// The notification feed is down the whole test.
		c.JSON(http.StatusBadGateway, response.Envelope{Error: appErrors.ErrDependency})
	})
	router.GET("/api/sessions/programmer", func(c *gin.Context) {
		c.JSON(http.StatusOK, response.Envelope{Data: []models.Session{{ID: "sess-1", Title: "Mock Interview"}}})
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	sessions := make(chan []models.Session, 8)
	client := NewClient(server.URL, time.Second)
	poller := NewProgrammerPoller(client, "prog-1", 10*time.Millisecond, 10*time.Millisecond,
		func([]models.Notification) {},
		func(s []models.Session) { sessions <- s },
		nil)

	poller.Start(context.Background())
	defer poller.Stop()

	select {
	case got := <-sessions:
		require.Len(t, got, 1)
		assert.Equal(t, "Mock Interview", got[0].Title)
	case <-time.After(time.Second):
		t.Fatal("session loop stalled behind failing notification loop")
	}
}

func TestProgrammerPollerStopIsIdempotent(t *testing.T) {
	server := newPortalStub(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, []models.Notification{})
	})

	client := NewClient(server.URL, time.Second)
	poller := NewProgrammerPoller(client, "prog-1", 10*time.Millisecond, 10*time.Millisecond,
		func([]models.Notification) {}, func([]models.Session) {}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	poller.Start(ctx)
	cancel()
	poller.Stop()
	poller.Stop()
}
