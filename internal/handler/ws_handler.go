package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sakec/hms-backend/internal/config"
	"github.com/sakec/hms-backend/internal/middleware"
	"github.com/sakec/hms-backend/internal/response"
	"github.com/sakec/hms-backend/internal/service"
	ws "github.com/sakec/hms-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams application status changes to students.
type WSHandler struct {
	rdb      *redis.Client
	students *service.StudentService
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(rdb *redis.Client, students *service.StudentService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		rdb:      rdb,
		students: students,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// StatusStream godoc
// WS /ws/v1/student/status?token=...
// Sends the caller's current status, then every change an admin makes.
func (h *WSHandler) StatusStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	userID, err := claims.IdentityID()
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
		return
	}

	// Resolve before upgrading so a missing profile is a plain 404.
	student, err := h.students.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Str("user_id", userID.String()).Logger()
	wsLog.Info().Msg("Student connected")

	ctx := c.Request.Context()
	sub := h.rdb.Subscribe(ctx, config.CacheKey.StudentStatusChannel(userID.String()))
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		wsLog.Error().Err(err).Msg("Status subscription failed")
		ws.WriteError(conn, "status feed unavailable")
		return
	}

	if err := ws.WriteTyped(conn, ws.StatusResponse{
		Event:     ws.EventStatus,
		StudentID: student.ID.String(),
		Status:    string(student.Status),
		FeeStatus: string(student.FeeStatus),
	}); err != nil {
		return
	}

	// Only this goroutine writes; the reader reports pings and disconnects.
	pings := make(chan struct{}, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var msg ws.RequestEnvelope
			if err := ws.ReadJSON(conn, &msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					wsLog.Warn().Err(err).Msg("Unexpected close")
				}
				return
			}
			if msg.Action == ws.ActionPing {
				select {
				case pings <- struct{}{}:
				default:
				}
			}
		}
	}()

	updates := sub.Channel()
	for {
		select {
		case <-done:
			wsLog.Debug().Msg("Connection closed")
			return
		case <-pings:
			if err := ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong}); err != nil {
				return
			}
		case msg, ok := <-updates:
			if !ok {
				ws.Close(conn, "status feed closed")
				return
			}
			var update service.StatusUpdate
			if err := json.Unmarshal([]byte(msg.Payload), &update); err != nil {
				wsLog.Warn().Err(err).Msg("Malformed status update")
				continue
			}
			if err := ws.WriteTyped(conn, ws.StatusResponse{
				Event:     ws.EventStatus,
				StudentID: update.StudentID.String(),
				Status:    string(update.Status),
			}); err != nil {
				return
			}
		}
	}
}
