package widget

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"UD_missions_miniapp/internal/model"
	"UD_missions_miniapp/pkg/auth"
	"UD_missions_miniapp/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
)

const (
	basePath  = "/widget"
	claimPath = basePath + "/claim/"
	wsPath    = basePath + "/ws"

	writeWait = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type countdownTick struct {
	Kind  string `json:"kind"`
	Label string `json:"label"`
	Remaining
}

// Host serves one widget per Telegram credential. The host does not verify
// init data, only the backend does, so two callers share a widget only when
// they present the exact same init data.
type Host struct {
	client    StatusClient
	clock     clockwork.Clock
	countdown Countdown

	mu      sync.Mutex
	widgets map[string]*Widget
}

func NewHost(client StatusClient, clock clockwork.Clock) *Host {
	return &Host{
		client:    client,
		clock:     clock,
		countdown: NewClockCountdown(clock),
		widgets:   make(map[string]*Widget),
	}
}

func (h *Host) Register(router gin.IRouter) {
	g := router.Group(basePath)
	{
		g.GET("", h.page)
		g.POST("/claim/:kind", h.claim)
		g.GET("/ws", h.stream)
	}
}

func (h *Host) widgetFor(s Session) *Widget {
	user := s.User()
	if user == nil {
		return New(h.client)
	}

	key := credentialKey(user.InitData)

	h.mu.Lock()
	defer h.mu.Unlock()

	w, ok := h.widgets[key]
	if !ok {
		w = New(h.client)
		h.widgets[key] = w
	}
	return w
}

func (h *Host) page(c *gin.Context) {
	s, initData := sessionFromRequest(c)
	w := h.widgetFor(s)

	if err := w.Mount(c.Request.Context(), s); err != nil {
		logger.Named("widget").Info("widget mounted with load error", zap.Error(err))
	}

	h.renderWidget(c, w, initData)
}

func (h *Host) claim(c *gin.Context) {
	log := logger.Named("widget")

	kind, ok := model.ParseMissionKind(c.Param("kind"))
	if !ok {
		c.String(http.StatusBadRequest, "unknown mission kind")
		return
	}

	s, initData := sessionFromRequest(c)
	w := h.widgetFor(s)

	ctx := c.Request.Context()
	if err := w.SetSession(ctx, s); err != nil {
		log.Info("status load before claim failed", zap.Error(err))
	}

	if err := w.Claim(ctx, kind); err != nil {
		if errors.Is(err, ErrClaimInProgress) {
			log.Info("duplicate claim ignored", zap.String("kind", kind.String()))
		}
	}

	h.renderWidget(c, w, initData)
}

func (h *Host) renderWidget(c *gin.Context, w *Widget, initData string) {
	view := Present(w.Snapshot(), h.clock.Now())

	data := pageData{
		View:      view,
		InitData:  initData,
		ClaimPath: claimPath,
		WSPath:    wsPath,
	}
	if initData != "" {
		data.WSPath = wsPath + "?initData=" + url.QueryEscape(initData)
	}

	var buf bytes.Buffer
	if err := render(&buf, data); err != nil {
		logger.Named("widget").Error("failed to render widget", zap.Error(err))
		c.String(http.StatusInternalServerError, "failed to render widget")
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// stream pushes countdown ticks for every kind on cooldown until the client
// goes away.
func (h *Host) stream(c *gin.Context) {
	log := logger.Named("widget")

	s, _ := sessionFromRequest(c)
	w := h.widgetFor(s)
	if err := w.SetSession(c.Request.Context(), s); err != nil {
		log.Info("status load before stream failed", zap.Error(err))
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	var writeMu sync.Mutex
	send := func(tick countdownTick) {
		data, err := json.Marshal(tick)
		if err != nil {
			log.Error("failed to marshal tick", zap.Error(err))
			return
		}

		writeMu.Lock()
		defer writeMu.Unlock()
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Debug("failed to write tick", zap.Error(err))
		}
	}

	view := Present(w.Snapshot(), h.clock.Now())
	stops := make([]func(), 0, len(view.Buttons))
	for _, b := range view.Buttons {
		if b.State != ButtonOnCooldown {
			continue
		}

		kind, label := b.Kind.String(), b.Label
		stops = append(stops, h.countdown.Start(b.CooldownEnd, func(r Remaining) {
			send(countdownTick{Kind: kind, Label: label, Remaining: r})
		}))
	}
	// runs before conn.Close, so no tick is written to a closed connection
	defer func() {
		for _, stop := range stops {
			stop()
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Info("websocket unexpected close", zap.Error(err))
			}
			return
		}
	}
}

// sessionFromRequest reads Telegram init data from the Authorization header,
// the query string or a form field, in that order.
func sessionFromRequest(c *gin.Context) (Session, string) {
	initData := ""
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, auth.Scheme) {
		initData = strings.TrimPrefix(header, auth.Scheme)
	}
	if initData == "" {
		initData = c.Query("initData")
	}
	if initData == "" {
		initData = c.PostForm("initData")
	}

	return SessionFromInitData(initData), initData
}

func credentialKey(initData string) string {
	sum := sha256.Sum256([]byte(initData))
	return hex.EncodeToString(sum[:])
}
