package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/course-registration/internal/config"
	"github.com/stemsi/course-registration/internal/middleware"
	"github.com/stemsi/course-registration/internal/model"
	"github.com/stemsi/course-registration/internal/response"
	"github.com/stemsi/course-registration/internal/service"
	ws "github.com/stemsi/course-registration/internal/websocket"
)

const wsPingInterval = 30 * time.Second

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

// WSHandler streams a student's live timetable and accepts add/drop over the socket.
type WSHandler struct {
	rdb               *redis.Client
	enrollmentService *service.EnrollmentService
	log               zerolog.Logger
	upgrader          websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(rdb *redis.Client, enrollmentService *service.EnrollmentService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		rdb:               rdb,
		enrollmentService: enrollmentService,
		log:               log.With().Str("component", "ws_handler").Logger(),
		upgrader:          buildUpgrader(allowedOrigins),
	}
}

// TimetableStream godoc
// WS /ws/v1/student/timetable
// Pushes the grid on connect and after every change to the student's
// enrollment, from this socket or any other client.
func (h *WSHandler) TimetableStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	matric := claims.Matric
	wsLog := h.log.With().Str("matric", matric).Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubsub := h.rdb.Subscribe(ctx, config.CacheKey.TimetableChannel(matric))
	defer pubsub.Close()
	if _, err := pubsub.Receive(ctx); err != nil {
		wsLog.Error().Err(err).Msg("Subscribe failed")
		ws.WriteError(conn, "live updates unavailable")
		return
	}
	updates := pubsub.Channel()

	if err := h.pushTimetable(ctx, conn, matric); err != nil {
		wsLog.Debug().Err(err).Msg("Initial push failed")
		return
	}
	wsLog.Info().Msg("Student connected")

	requests := make(chan ws.Request)
	go h.readLoop(ctx, conn, wsLog, requests, cancel)

	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()

	// This loop is the only writer on conn.
	for {
		select {
		case <-ctx.Done():
			wsLog.Debug().Msg("Connection closed")
			return

		case req := <-requests:
			if err := h.handleRequest(ctx, conn, matric, req); err != nil {
				return
			}

		case _, ok := <-updates:
			if !ok {
				return
			}
			if err := h.pushTimetable(ctx, conn, matric); err != nil {
				return
			}

		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second)); err != nil {
				return
			}
		}
	}
}

// readLoop decodes client messages until the socket fails, then cancels ctx.
func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, wsLog zerolog.Logger, out chan<- ws.Request, cancel context.CancelFunc) {
	defer cancel()
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(ws.ReadWait))
	})
	for {
		var req ws.Request
		if err := ws.ReadJSON(conn, &req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			}
			return
		}
		select {
		case out <- req:
		case <-ctx.Done():
			return
		}
	}
}

func (h *WSHandler) handleRequest(ctx context.Context, conn *websocket.Conn, matric string, req ws.Request) error {
	switch req.Action {
	case ws.ActionPing:
		return ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})

	case ws.ActionRefresh:
		return h.pushTimetable(ctx, conn, matric)

	case ws.ActionAdd, ws.ActionDrop:
		if strings.TrimSpace(req.Code) == "" {
			return ws.WriteError(conn, "code is required")
		}
		apply := h.enrollmentService.Add
		if req.Action == ws.ActionDrop {
			apply = h.enrollmentService.Drop
		}
		result, _, err := apply(ctx, matric, req.Code)
		if err != nil {
			h.log.Error().Err(err).Str("matric", matric).Msg("Enrollment change over socket failed")
			return ws.WriteError(conn, "enrollment change failed")
		}
		// A successful change also arrives as a timetable push via pub/sub.
		return ws.WriteTyped(conn, ws.ResultResponse{
			Event:    ws.EventResult,
			Status:   string(result.Status),
			Code:     result.Code,
			Reason:   string(result.Reason),
			Conflict: result.ConflictCode,
		})

	default:
		return ws.WriteError(conn, "unknown action: "+string(req.Action))
	}
}

func (h *WSHandler) pushTimetable(ctx context.Context, conn *websocket.Conn, matric string) error {
	sum, grid, err := h.enrollmentService.Timetable(ctx, matric)
	if err != nil {
		h.log.Error().Err(err).Str("matric", matric).Msg("Load timetable failed")
		return ws.WriteError(conn, "failed to load timetable")
	}
	return ws.WriteTyped(conn, ws.TimetableResponse{
		Event:     ws.EventTimetable,
		Summary:   model.NewEnrollmentSummary(sum),
		Timetable: model.NewTimetableResponse(grid),
	})
}
