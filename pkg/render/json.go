package render

import (
	"encoding/json"

	"github.com/matzehuels/seesaw/pkg/balance"
	"github.com/matzehuels/seesaw/pkg/geometry"
	"github.com/matzehuels/seesaw/pkg/simulation"
)

// View is the JSON shape of a snapshot, shared by RenderJSON and the HTTP API.
type View struct {
	PlankLength float64      `json:"plank_length"`
	Angle       float64      `json:"angle"`
	Tilt        string       `json:"tilt"`
	NetTorque   float64      `json:"net_torque"`
	Left        SideView     `json:"left"`
	Right       SideView     `json:"right"`
	Objects     []ObjectView `json:"objects"`
}

// SideView summarises one half of the plank.
type SideView struct {
	Torque float64 `json:"torque"`
	Weight float64 `json:"weight"`
	Count  int     `json:"count"`
}

// ObjectView is a placed object with its plank-local render offset.
type ObjectView struct {
	ID       string  `json:"id"`
	Weight   float64 `json:"weight"`
	Distance float64 `json:"distance"`
	Offset   float64 `json:"offset"`
	Side     string  `json:"side"`
}

// NewView builds the JSON view of snap. Objects keep insertion order.
func NewView(snap simulation.Snapshot, plank geometry.Plank) View {
	r := snap.Balance
	v := View{
		PlankLength: plank.Length,
		Angle:       r.Angle,
		Tilt:        r.Tilt(),
		NetTorque:   r.NetTorque,
		Left:        SideView{Torque: r.LeftTorque, Weight: r.LeftWeight, Count: r.LeftCount},
		Right:       SideView{Torque: r.RightTorque, Weight: r.RightWeight, Count: r.RightCount},
		Objects:     make([]ObjectView, 0, len(snap.Objects)),
	}
	for _, o := range snap.Objects {
		v.Objects = append(v.Objects, objectView(o, plank))
	}
	return v
}

func objectView(o balance.Object, plank geometry.Plank) ObjectView {
	return ObjectView{
		ID:       o.ID,
		Weight:   o.Weight,
		Distance: o.Distance,
		Offset:   plank.Offset(o.Distance),
		Side:     o.Side().String(),
	}
}

// RenderJSON encodes snap as indented JSON.
func RenderJSON(snap simulation.Snapshot, plank geometry.Plank) ([]byte, error) {
	return json.MarshalIndent(NewView(snap, plank), "", "  ")
}
