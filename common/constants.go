package common

import "math"

const (
	// TickRate is the fixed simulation frequency in Hz.
	TickRate  = 60
	TickDelta = 1.0 / float64(TickRate)

	// BroadcastDivisor sends one state snapshot every N ticks.
	BroadcastDivisor = 3
)

const (
	// SpinRate is the angular velocity a tethered body is driven toward,
	// in rad/s. Positive is counter-clockwise.
	SpinRate = math.Pi

	// SpinVelocityClamp bounds the per-tick velocity shortfall the spin
	// correction is allowed to make up, before gain and delta scaling.
	SpinVelocityClamp = math.Pi

	// SpinCorrectionGain scales the clamped shortfall into an angular
	// impulse. Tuned to reach SpinRate within a few ticks at TickRate
	// without overshoot against stiff joints.
	SpinCorrectionGain = 10.0
)
