// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/relabs-tech/inertial_viewer/internal/session"
	"github.com/relabs-tech/inertial_viewer/internal/viewstate"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// WebSocket message types
type WSMessage struct {
	Action   string         `json:"action"` // window, relayout, restyle, view
	TMin     *float64       `json:"t_min,omitempty"`
	TMax     *float64       `json:"t_max,omitempty"`
	Relayout map[string]any `json:"relayout,omitempty"`
	Restyle  []any          `json:"restyle,omitempty"`
}

type WSResponse struct {
	Type    string               `json:"type"` // window, view, error
	Window  *session.WindowView  `json:"window,omitempty"`
	View    *viewstate.ViewState `json:"view,omitempty"`
	Message string               `json:"message,omitempty"`
}

// handleWS serves slider moves and chart events over one connection. Each
// message is answered in order on the same connection.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("web: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("web: websocket read error: %v", err)
			}
			return
		}

		resp := s.dispatch(r, sess, msg)
		if err := conn.WriteJSON(resp); err != nil {
			log.Printf("web: websocket write error: %v", err)
			return
		}
	}
}

func (s *Server) dispatch(r *http.Request, sess *session.Session, msg WSMessage) WSResponse {
	ctx := r.Context()

	switch msg.Action {
	case "window":
		q, err := sess.FullWindow()
		if err != nil {
			return wsError(err)
		}
		if msg.TMin != nil {
			q.Min = *msg.TMin
		}
		if msg.TMax != nil {
			q.Max = *msg.TMax
		}
		view, err := sess.Window(ctx, q)
		if err != nil {
			return wsError(err)
		}
		return WSResponse{Type: "window", Window: &view}

	case "relayout", "restyle", "view":
		var (
			view viewstate.ViewState
			err  error
		)
		switch msg.Action {
		case "relayout":
			view, err = sess.Relayout(ctx, msg.Relayout)
		case "restyle":
			if in, has := viewstate.FromRestyle(msg.Restyle); has {
				view, err = sess.Interact(ctx, in)
			} else {
				view, err = sess.View(ctx)
			}
		default:
			view, err = sess.View(ctx)
		}
		if err != nil {
			return wsError(err)
		}
		return WSResponse{Type: "view", View: &view}
	}

	return wsError(fmt.Errorf("unknown action %q", msg.Action))
}

func wsError(err error) WSResponse {
	return WSResponse{Type: "error", Message: err.Error()}
}
