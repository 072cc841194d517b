package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/reviewpop/reviewpop-backend/internal/app/service"
	apperrors "github.com/reviewpop/reviewpop-backend/internal/errors"
	"github.com/reviewpop/reviewpop-backend/internal/middleware"
	"github.com/reviewpop/reviewpop-backend/internal/websocket"
)

// WSController upgrades dashboard connections onto the live review feed.
type WSController struct {
	hub             *websocket.Hub
	businessService service.BusinessService
	upgrader        gorillaws.Upgrader
}

func NewWSController(hub *websocket.Hub, businessService service.BusinessService) *WSController {
	return &WSController{
		hub:             hub,
		businessService: businessService,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Dashboard origins vary per deployment; auth happens via
			// JWT before the upgrade, not via origin checks.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// DashboardFeed subscribes the authenticated owner's dashboard to live
// review events
// GET /ws/dashboard
func (ctrl *WSController) DashboardFeed(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	business, err := ctrl.businessService.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, service.ErrBusinessNotFound) {
			apperrors.NotFound(c, apperrors.BusinessNotFound, "Business not found")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "resolve business")
		return
	}

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		log.Warn("WebSocket upgrade failed", map[string]interface{}{
			"error":       err.Error(),
			"business_id": business.ID,
		})
		return
	}

	client := &websocket.Client{
		Hub:        ctrl.hub,
		Conn:       &websocket.Conn{Conn: conn},
		BusinessID: business.ID,
		Send:       make(chan []byte, 64),
	}
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
