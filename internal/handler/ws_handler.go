/*
Package handler provides the HTTP handler function for WebSocket connection
upgrading and initialization.

This file contains the HandleWebSocket function, which is responsible for
admission control, upgrading the HTTP connection to WebSocket, bootstrapping
the session identity from an optional token, and starting the client pumps.
*/
package handler

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"exnebula/internal/pkg/errs"
	"exnebula/internal/pkg/limiter"
	"exnebula/internal/pkg/logx"
	"exnebula/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc to process WebSocket connection requests.
//
// A failed identity bootstrap is not a handshake error: the connection is
// admitted anonymously and simply cannot join rooms until it authenticates.
func HandleWebSocket(upgrader websocket.Upgrader, admission *limiter.WindowLimiter, deps *AppDeps) http.HandlerFunc {
	resolver := deps.Resolver()

	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if ip == "" {
			ip = "unknown_ip"
		}

		decision := admission.Admit(ip, time.Now())
		if !decision.Allowed {
			logx.Warn("WebSocket connection rejected: admission window exhausted.", "ip", ip)
			retryAfter := int(math.Ceil(decision.RetryAfter.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimited).WithMeta("retryAfter", retryAfter))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		client := deps.Hub.Registry().Register(conn)

		// Session bootstrap: an optional token on the handshake attaches the
		// caller's identity before any command is read.
		if tokenString := r.URL.Query().Get("token"); tokenString != "" {
			claims, err := deps.Codec.Verify(tokenString)
			if err != nil {
				logx.Warn("Session bootstrap failed: token rejected", "connection_id", client.ID())
			} else {
				identity, err := resolver.FindBySubjectID(r.Context(), claims.ID)
				if err != nil {
					logx.Warn("Session bootstrap failed: subject not resolvable",
						"connection_id", client.ID(), "subject_id", claims.ID)
				} else {
					deps.Hub.Registry().AttachIdentity(client.ID(), identity)
				}
			}
		}

		go client.WritePump()

		logx.Info("WebSocket connection established", "connection_id", client.ID(), "ip", ip)

		client.ReadPump()
	}
}
