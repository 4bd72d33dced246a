package materials

import "github.com/chewxy/math32"

// Expression is a scalar evaluated once per frame from the frame time (in
// milliseconds) and, optionally, the entity being drawn.
type Expression interface {
	Evaluate(time uint64, entity RenderEntity) float32
}

type Constant float32

func (c Constant) Evaluate(uint64, RenderEntity) float32 { return float32(c) }

// EntityParm reads shader parameter n of the entity. Without an entity the
// colour parms 0..3 read as 1 and the rest as 0.
type EntityParm int

func (p EntityParm) Evaluate(_ uint64, entity RenderEntity) float32 {
	if entity == nil {
		if p >= 0 && p <= 3 {
			return 1
		}
		return 0
	}
	return entity.ShaderParm(int(p))
}

// Time is the frame time in seconds multiplied by the given rate.
type Time float32

func (t Time) Evaluate(time uint64, _ RenderEntity) float32 {
	return float32(time) / 1000 * float32(t)
}

// Sine maps its operand (in cycles) through sin(2*pi*x).
type Sine struct {
	X Expression
}

func (s Sine) Evaluate(time uint64, entity RenderEntity) float32 {
	return math32.Sin(2 * math32.Pi * s.X.Evaluate(time, entity))
}

type Product struct {
	A, B Expression
}

func (p Product) Evaluate(time uint64, entity RenderEntity) float32 {
	return p.A.Evaluate(time, entity) * p.B.Evaluate(time, entity)
}

type Sum struct {
	A, B Expression
}

func (s Sum) Evaluate(time uint64, entity RenderEntity) float32 {
	return s.A.Evaluate(time, entity) + s.B.Evaluate(time, entity)
}

// Pulse oscillates between 0 and 1 at the given frequency in Hz.
func Pulse(hz float32) Expression {
	return Sum{A: Constant(0.5), B: Product{A: Constant(0.5), B: Sine{X: Time(hz)}}}
}

// Clamp limits v to [0, 1].
func Clamp(v float32) float32 {
	return math32.Max(0, math32.Min(1, v))
}

func evaluate(expr Expression, time uint64, entity RenderEntity, fallback float32) float32 {
	if expr == nil {
		return fallback
	}
	return expr.Evaluate(time, entity)
}
