//go:build js && wasm

// Command aurora-wasm mounts the aurora renderer in a web page.
//
// It mounts into the element with id "aurora" (or <body>) and exposes
//
//	auroraSetProps(json)  // merge a props patch, e.g. '{"amplitude": 1.4}'
//	auroraUnmount()
//
// on the global object.
package main

import (
	"encoding/json"
	"log/slog"
	"syscall/js"

	"github.com/gogpu/aurora"
	"github.com/gogpu/aurora/host/dom"
)

func main() {
	aurora.SetLogger(slog.Default())

	doc := js.Global().Get("document")
	el := doc.Call("getElementById", "aurora")
	if !el.Truthy() {
		el = doc.Get("body")
	}

	h := dom.New(el)
	a := aurora.Mount(h, h, h)

	setProps := js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) == 0 {
			return nil
		}
		var patch aurora.PropsPatch
		if err := json.Unmarshal([]byte(args[0].String()), &patch); err != nil {
			aurora.Logger().Warn("aurora-wasm: bad props", "err", err)
			return err.Error()
		}
		a.Props().Update(patch)
		return nil
	})
	unmount := js.FuncOf(func(js.Value, []js.Value) any {
		a.Unmount()
		return nil
	})
	js.Global().Set("auroraSetProps", setProps)
	js.Global().Set("auroraUnmount", unmount)

	select {}
}
