package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakec/hms-backend/internal/model"
	ws "github.com/sakec/hms-backend/internal/websocket"
)

func TestStatusStreamDeliversUpdates(t *testing.T) {
	a := newApp(t)
	admin := a.adminToken(t)
	code, _ := a.do(t, http.MethodPost, "/api/students/register", application("R100", "a@x.test", "101"), "")
	require.Equal(t, http.StatusCreated, code)
	student := a.login(t, "R100", "abcdef")

	srv := httptest.NewServer(a.engine)
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/v1/student/status?token=" + student

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var initial ws.StatusResponse
	require.NoError(t, conn.ReadJSON(&initial))
	assert.Equal(t, ws.EventStatus, initial.Event)
	assert.Equal(t, string(model.StatusPending), initial.Status)

	require.NoError(t, conn.WriteJSON(ws.RequestEnvelope{Action: ws.ActionPing}))
	var pong ws.PongResponse
	require.NoError(t, conn.ReadJSON(&pong))
	assert.Equal(t, ws.EventPong, pong.Event)

	code, _ = a.do(t, http.MethodPut, "/api/students/"+initial.StudentID+"/status", map[string]string{"status": "Rejected"}, admin)
	require.Equal(t, http.StatusOK, code)

	var update ws.StatusResponse
	require.NoError(t, conn.ReadJSON(&update))
	assert.Equal(t, string(model.StatusRejected), update.Status)
}

func TestStatusStreamRejectsAdmins(t *testing.T) {
	a := newApp(t)
	admin := a.adminToken(t)

	srv := httptest.NewServer(a.engine)
	defer srv.Close()

	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/v1/student/status?token="+admin, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
