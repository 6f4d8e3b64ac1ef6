package balance_test

import (
	"fmt"

	"github.com/matzehuels/seesaw/pkg/balance"
)

func ExampleCompute() {
	objects := []balance.Object{
		{ID: "a", Weight: 2, Distance: -50},
		{ID: "b", Weight: 3, Distance: 40},
	}

	r := balance.Compute(objects, balance.DefaultParams())
	fmt.Printf("left=%.0f right=%.0f net=%.0f angle=%.0f tilt=%s\n",
		r.LeftTorque, r.RightTorque, r.NetTorque, r.Angle, r.Tilt())
	// Output: left=100 right=120 net=20 angle=2 tilt=right
}

func ExampleCompute_saturated() {
	r := balance.Compute([]balance.Object{{ID: "a", Weight: 5, Distance: 100}}, balance.DefaultParams())
	fmt.Printf("raw=%.0f angle=%.0f\n", r.NetTorque/balance.DefaultTorqueScale, r.Angle)
	// Output: raw=50 angle=30
}
