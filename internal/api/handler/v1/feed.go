package v1

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/campusfest/eventhub-api/internal/api/handler/v1/response"
)

type RegistrationFeed interface {
	Attach(conn *websocket.Conn, userID uint)
}

type FeedHandler struct {
	feed     RegistrationFeed
	upgrader websocket.Upgrader
}

// NewFeedHandler accepts upgrades from any origin when allowedOrigins is
// empty.
func NewFeedHandler(feed RegistrationFeed, allowedOrigins []string) *FeedHandler {
	return &FeedHandler{
		feed: feed,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowedOrigins) == 0 || origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

// HandleRegistrationFeed godoc
// @Summary      Live registration feed
// @Description  Upgrades to a websocket that receives every new booking as JSON
// @Tags         admin
// @Param        token  query     string  true  "JWT"
// @Success      101    {string}  string  "Switching Protocols"
// @Failure      401    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Router       /admin/registrations/feed [get]
func (h *FeedHandler) HandleRegistrationFeed(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		zap.L().Debug("feed upgrade failed", zap.Error(err))
		return
	}

	h.feed.Attach(conn, user.ID)
}
