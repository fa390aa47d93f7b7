// Package live serves a renditional application to browsers.
//
// Each WebSocket connection gets a Session: its own in-memory document,
// reactive runtime and mounted application. The browser receives the
// document as a JSON snapshot, forwards DOM events by node ID, and receives
// the resulting tree mutations in one batch per event. All reactive work of
// a session happens on the goroutine running Session.Run, so application
// code never needs locks.
//
// # Protocol
//
// Server to client, one JSON object per WebSocket text message:
//
//	{"type":"init","seq":1,"tree":{...}}
//	{"type":"patch","seq":2,"mutations":[{"op":"setText","target":7,"value":"3"}]}
//	{"type":"error","seq":3,"error":"..."}
//
// Client to server:
//
//	{"type":"click","target":12}
//	{"type":"input","target":15,"value":"milk"}
//
// # Server
//
//	srv := live.NewServer(func() render.Template { return demo.Counter() },
//	    live.WithLogger(logger),
//	)
//	err := srv.ListenAndServe(ctx)
package live
