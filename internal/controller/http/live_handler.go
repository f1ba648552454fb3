package http

import (
	"encoding/json"
	"net/http"

	"freeland/internal/realtime"
	"freeland/internal/usecase"
	"freeland/pkg/jwt"
	"freeland/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// actionEnvelope is the inbound wire frame: a kind tag plus a raw payload
// decoded per action.
type actionEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d"`
}

type postAction struct {
	UID  string `json:"uid"`
	Text string `json:"text"`
}

type targetAction struct {
	UID string `json:"uid"`
	ID  string `json:"id"`
}

type uidAction struct {
	UID string `json:"uid"`
}

type messageAction struct {
	UID  string `json:"uid"`
	ToID string `json:"toId"`
	Text string `json:"text"`
}

type sendAction struct {
	UID    string `json:"uid"`
	ToID   string `json:"toId"`
	Amount int    `json:"amount"`
}

type LiveHandler struct {
	hub        *realtime.Hub
	economy    usecase.EconomyUseCase
	jwtService *jwt.Service
	logger     *logger.Logger
	upgrader   websocket.Upgrader
}

func NewLiveHandler(
	hub *realtime.Hub,
	economy usecase.EconomyUseCase,
	jwtService *jwt.Service,
	log *logger.Logger,
) *LiveHandler {
	return &LiveHandler{
		hub:        hub,
		economy:    economy,
		jwtService: jwtService,
		logger:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Serve godoc
// @Summary Live feed websocket
// @Description Upgrades to a websocket carrying feed events and client actions
// @Tags live
// @Param token query string false "JWT; binds the socket immediately"
// @Router /ws [get]
func (h *LiveHandler) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Websocket upgrade failed: %v", err)
		return
	}

	h.hub.Connect(conn)
	defer func() {
		h.hub.Disconnect(conn)
		conn.Close()
	}()

	// A token in the query string binds the socket before any action, so
	// targeted events reach clients that only listen.
	if token := c.Query("token"); token != "" {
		if claims, err := h.jwtService.ValidateToken(token); err == nil {
			h.hub.Bind(conn, claims.UserID)
		}
	}

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		h.handleFrame(conn, data)
	}
}

// handleFrame dispatches one inbound action. A panic or error in one action
// never takes down the socket.
func (h *LiveHandler) handleFrame(conn *websocket.Conn, data []byte) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("Panic handling live action: %v", r)
		}
	}()

	var envelope actionEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		h.logger.Warn("Malformed live frame: %v", err)
		return
	}

	// Trust-on-first-message: an unbound socket binds to the uid of its
	// first action.
	var claim uidAction
	if err := json.Unmarshal(envelope.D, &claim); err == nil && claim.UID != "" {
		h.hub.Bind(conn, claim.UID)
	}

	uid, bound := h.hub.UserFor(conn)
	if !bound {
		return
	}

	var actionErr error
	switch envelope.T {
	case "post":
		var a postAction
		if actionErr = json.Unmarshal(envelope.D, &a); actionErr == nil {
			actionErr = h.economy.CreatePost(uid, a.Text)
		}
	case "like":
		var a targetAction
		if actionErr = json.Unmarshal(envelope.D, &a); actionErr == nil {
			actionErr = h.economy.ToggleLike(uid, a.ID)
		}
	case "reshare":
		var a targetAction
		if actionErr = json.Unmarshal(envelope.D, &a); actionErr == nil {
			actionErr = h.economy.ToggleReshare(uid, a.ID)
		}
	case "buy":
		var a targetAction
		if actionErr = json.Unmarshal(envelope.D, &a); actionErr == nil {
			actionErr = h.economy.BuyPost(uid, a.ID)
		}
	case "sell":
		var a targetAction
		if actionErr = json.Unmarshal(envelope.D, &a); actionErr == nil {
			actionErr = h.economy.SellPost(uid, a.ID)
		}
	case "buy_dm":
		actionErr = h.economy.BuyDMAccess(uid)
	case "send_message":
		var a messageAction
		if actionErr = json.Unmarshal(envelope.D, &a); actionErr == nil {
			actionErr = h.economy.SendDirectMessage(uid, a.ToID, a.Text)
		}
	case "send":
		var a sendAction
		if actionErr = json.Unmarshal(envelope.D, &a); actionErr == nil {
			actionErr = h.economy.SendTransfer(uid, a.ToID, a.Amount)
		}
	default:
		h.logger.Warn("Unknown live action %q from %s", envelope.T, uid)
		return
	}

	if actionErr != nil {
		h.logger.Warn("Live action %q from %s rejected: %v", envelope.T, uid, actionErr)
	}
}
