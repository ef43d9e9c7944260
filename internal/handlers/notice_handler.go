package handlers

import (
	"strings"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/AssessmentIntake/internal/middleware"
	noticews "github.com/saeid-a/AssessmentIntake/internal/websocket"
)

type sessionOwnership interface {
	SessionOwnedBy(sessionID, phoneID string) bool
}

// NoticeHandler streams the notices of one wizard session over a websocket.
type NoticeHandler struct {
	sessions  sessionOwnership
	hub       *noticews.Hub
	jwtSecret string
}

func NewNoticeHandler(sessions sessionOwnership, hub *noticews.Hub, jwtSecret string) *NoticeHandler {
	return &NoticeHandler{
		sessions:  sessions,
		hub:       hub,
		jwtSecret: jwtSecret,
	}
}

func (h *NoticeHandler) WebSocketAuth(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return c.Status(fiber.StatusUpgradeRequired).JSON(fiber.Map{"error": "WebSocket upgrade required"})
	}

	claims, err := middleware.PhoneClaims(c, h.jwtSecret, true)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
	}
	sessionID := strings.TrimSpace(c.Query("session"))
	if sessionID == "" || !h.sessions.SessionOwnedBy(sessionID, claims.PhoneID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Sessão do formulário não encontrada. Comece novamente."})
	}

	c.Locals(middleware.LocalPhoneID, claims.PhoneID)
	c.Locals("session_id", sessionID)
	return c.Next()
}

func (h *NoticeHandler) HandleWebSocket(conn *websocket.Conn) {
	sessionID, _ := conn.Locals("session_id").(string)
	client := noticews.NewClient(h.hub, conn, sessionID)
	h.hub.Register(client)

	go client.WritePump()
	client.ReadPump()
}
