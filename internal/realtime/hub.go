package realtime

import (
	"encoding/json"
	"log"
	"sync"

	"opsmerge-backend/internal/auth"
	"opsmerge-backend/internal/config"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// Event es lo único que viaja por el feed: el cliente reemplaza su estado
// local completo recargando la colección al recibirlo (last-write-wins).
type Event struct {
	Tipo   string `json:"tipo"`   // "anuncio" o "discusion"
	Accion string `json:"accion"` // "creado", "editado" o "eliminado"
	ID     uint   `json:"id"`
}

type Hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{conns: make(map[*websocket.Conn]struct{})}
}

// UpgradeMiddleware valida el token (llega por query string, el upgrade de
// websocket no permite headers propios) y deja pasar solo upgrades reales.
func UpgradeMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		if _, err := auth.ParseToken(cfg.JWTSecret, c.Query("token")); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Token inválido o expirado")
		}
		return c.Next()
	}
}

// FeedHandler registra la conexión y la mantiene abierta hasta que el cliente corte.
func (h *Hub) FeedHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		h.register(conn)
		defer h.unregister(conn)

		// Solo se escribe hacia el cliente; el loop de lectura detecta el cierre.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
}

func (h *Hub) register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = struct{}{}
}

func (h *Hub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, conn)
	conn.Close()
}

// Broadcast envía el evento a todas las conexiones; una conexión que falla se descarta.
func (h *Hub) Broadcast(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Printf("No se pudo serializar el evento del feed: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			delete(h.conns, conn)
			conn.Close()
		}
	}
}

// Count existe para los tests.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}
