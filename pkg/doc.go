// Package pkg provides the libraries behind the seesaw simulator.
//
// # Overview
//
// A seesaw is a plank balanced on a pivot at its middle. Objects of random
// weight are dropped onto it; each pulls its side down with torque
// weight × distance from the pivot, and the plank tilts by the net torque,
// scaled and clamped to ±30°. The pkg directory is organized into three areas:
//
//  1. Domain logic: [geometry], [balance], [registry], [simulation]
//  2. Infrastructure: [config], [cache], [store], [observability], [errors]
//  3. Outer surfaces: [render] (SVG, JSON, text) and [server] (HTTP + WebSocket)
//
// # Architecture
//
// Every mutation goes through one [simulation.Controller]:
//
//	click x (plank-local pixels)
//	         ↓
//	    [geometry] distance = x - length/2
//	         ↓
//	    [registry] create object, validate weight and distance
//	         ↓
//	    [balance] torques → angle
//	         ↓
//	    Presenter (terminal, WebSocket)  +  Gateway ([store]) save
//
// Saving is best effort: a failed save is logged and the in-memory state
// stays authoritative. On startup the controller restores the last saved
// state of its slot and recomputes the angle from the stored objects.
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/seesaw/pkg/config"
//	    "github.com/matzehuels/seesaw/pkg/simulation"
//	    "github.com/matzehuels/seesaw/pkg/store"
//	)
//
//	cfg := config.Default()
//	st, _ := store.Open(ctx, cfg.Store)
//	defer st.Close()
//
//	ctrl, _ := simulation.New(simulation.Options{Gateway: st})
//	ctrl.Restore(ctx)
//
//	obj, err := ctrl.Drop(ctx, 300) // 100px right of the pivot
//	fmt.Println(obj.Weight, ctrl.Balance().Angle)
//
// # Main Packages
//
// [balance] - Torque and tilt computation. Objects exactly on the pivot
// count toward neither side.
//
// [registry] - The ordered set of objects on the plank and id generation.
//
// [simulation] - The controller, its collaborator interfaces (Gateway,
// Presenter) and weight sources.
//
// [store] - Persistence backends: file, memory, Redis, MongoDB, SQLite and
// PostgreSQL, all speaking the same JSON state format.
//
// [render] - Stateless drawings of a snapshot.
//
// [server] - A JSON API with a WebSocket feed for browser clients.
package pkg
