package http

import (
	"context"
	"errors"
	"io"
	"net"
	stdhttp "net/http"
	"net/url"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/whitered-server/internal/config"
	"github.com/vovakirdan/whitered-server/internal/core"
	"github.com/vovakirdan/whitered-server/internal/proto"
	"github.com/vovakirdan/whitered-server/internal/utils"
)

// WSHandler upgrades HTTP connections and bridges them to core.Client.
type WSHandler struct {
	hub     *core.Hub
	origins []string
	maxMsg  int64
	limiter *rateLimiter
	log     *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler. The limiter throttles
// room creation and join actions per client address.
func NewWSHandler(hub *core.Hub, cfg *config.Config, limiter *rateLimiter, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{
		hub:     hub,
		origins: originPatterns(cfg.Origins()),
		maxMsg:  cfg.MaxMessageBytes,
		limiter: limiter,
		log:     logger,
	}
}

// originPatterns reduces configured origins to the host patterns the
// upgrade handshake matches the Origin header against. Entries that are
// already bare hosts (or wildcards) pass through unchanged.
func originPatterns(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, origin := range origins {
		if u, err := url.Parse(origin); err == nil && u.Host != "" {
			patterns = append(patterns, u.Host)
			continue
		}
		patterns = append(patterns, origin)
	}
	return patterns
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.origins,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	if h.maxMsg > 0 {
		conn.SetReadLimit(h.maxMsg)
	}

	client := core.NewClient(utils.NewID())
	defer h.hub.Disconnect(client)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ip := clientAddr(r)
	h.log.Debug().Str("client_id", client.ID).Str("addr", ip).Msg("ws connected")

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, client, ip)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *core.Client, ip string) error {
	for {
		var inbound proto.Inbound
		if err := wsjson.Read(ctx, conn, &inbound); err != nil {
			return err
		}

		cmd, protoErr, err := inboundToCommand(inbound)
		if err != nil {
			h.log.Warn().Err(err).Str("client_id", client.ID).Msg("failed to decode inbound")
			return err
		}
		if protoErr == nil && throttled(cmd) && !h.limiter.allow(ip) {
			protoErr = &proto.Error{Code: core.ErrCodeRateLimited, Msg: "too many requests"}
		}
		if protoErr != nil {
			if writeErr := wsjson.Write(ctx, conn, proto.Outbound{
				Type:  proto.OutboundTypeError,
				Error: protoErr,
			}); writeErr != nil {
				return writeErr
			}
			continue
		}

		h.hub.Handle(client, cmd)
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		select {
		case event, ok := <-client.Events:
			if !ok {
				return nil
			}
			if err := wsjson.Write(ctx, conn, outboundFromEvent(event)); err != nil {
				h.log.Error().Err(err).Str("client_id", client.ID).Msg("write ws event")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// throttled marks the actions subject to per-address rate limiting.
func throttled(cmd *core.Command) bool {
	return cmd.Kind == core.CommandCreateRoom || cmd.Kind == core.CommandJoinRoom
}

func clientAddr(r *stdhttp.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
