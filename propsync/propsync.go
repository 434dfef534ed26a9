// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package propsync feeds aurora props over a websocket.
//
// Every text message a client sends is a JSON aurora.PropsPatch. The
// server merges it over the current props, stores the result and replies
// with the stored aurora.Props. Concurrent clients race; the last write
// wins.
package propsync

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/gogpu/aurora"
)

// Handler returns an http.Handler that accepts websocket connections and
// applies their patches to cell.
func Handler(cell *aurora.PropsCell) http.Handler {
	return &handler{cell: cell}
}

type handler struct {
	cell *aurora.PropsCell
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, nil)
	if err != nil {
		aurora.Logger().Debug("propsync: accept failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer c.CloseNow()

	ctx := r.Context()
	for {
		var patch aurora.PropsPatch
		if err := wsjson.Read(ctx, c, &patch); err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure {
				aurora.Logger().Debug("propsync: read failed", "remote", r.RemoteAddr, "err", err)
			}
			return
		}
		stored := h.cell.Update(patch)
		aurora.Logger().Debug("propsync: props updated", "remote", r.RemoteAddr)
		if err := wsjson.Write(ctx, c, stored); err != nil {
			aurora.Logger().Debug("propsync: write failed", "remote", r.RemoteAddr, "err", err)
			return
		}
	}
}

// Send applies patch on the server at url and returns the props it stored.
func Send(ctx context.Context, url string, patch aurora.PropsPatch) (aurora.Props, error) {
	c, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return aurora.Props{}, fmt.Errorf("propsync: dial %s: %w", url, err)
	}
	defer c.CloseNow()

	if err := wsjson.Write(ctx, c, patch); err != nil {
		return aurora.Props{}, fmt.Errorf("propsync: send: %w", err)
	}
	var stored aurora.Props
	if err := wsjson.Read(ctx, c, &stored); err != nil {
		return aurora.Props{}, fmt.Errorf("propsync: read reply: %w", err)
	}
	if err := c.Close(websocket.StatusNormalClosure, ""); err != nil && !errors.Is(err, context.Canceled) {
		aurora.Logger().Debug("propsync: close", "err", err)
	}
	return stored, nil
}

// Push replaces every prop on the server at url with p.
func Push(ctx context.Context, url string, p aurora.Props) (aurora.Props, error) {
	return Send(ctx, url, p.Patch())
}
