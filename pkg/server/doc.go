// Package server exposes a simulation controller over HTTP.
//
// Routes:
//
//	GET    /healthz          liveness and build info
//	GET    /api/state        current state as JSON
//	POST   /api/objects      drop an object: {"x": 300} or {"x": 300, "weight": 5}
//	DELETE /api/objects      reset the plank
//	GET    /api/plank.svg    SVG drawing of the plank
//	GET    /ws               websocket stream of state events
//
// The controller is single-writer; the server serialises every request that
// touches it behind one mutex.
package server
