package main

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"

	"render-backend/core"
	"render-backend/scene"
)

// dayPalette is the sky and sun colour at one key time of day.
type dayPalette struct {
	t         float32 // normalised time 0..1
	sky       core.Color
	sun       core.Color
	intensity float32
}

// palettes is ordered by t and wraps (0 == 1).
var palettes = []dayPalette{
	{t: 0.00, sky: core.Color{R: 0.58, G: 0.75, B: 0.95, A: 1}, sun: core.Color{R: 1.00, G: 0.98, B: 0.92, A: 1}, intensity: 1.0},
	{t: 0.22, sky: core.Color{R: 0.90, G: 0.52, B: 0.18, A: 1}, sun: core.Color{R: 1.00, G: 0.65, B: 0.25, A: 1}, intensity: 0.8},
	{t: 0.30, sky: core.Color{R: 0.50, G: 0.22, B: 0.28, A: 1}, sun: core.Color{R: 0.70, G: 0.40, B: 0.55, A: 1}, intensity: 0.3},
	{t: 0.50, sky: core.Color{R: 0.04, G: 0.04, B: 0.08, A: 1}, sun: core.Color{R: 0.40, G: 0.45, B: 0.65, A: 1}, intensity: 0.15},
	{t: 0.70, sky: core.Color{R: 0.40, G: 0.18, B: 0.24, A: 1}, sun: core.Color{R: 0.75, G: 0.42, B: 0.60, A: 1}, intensity: 0.25},
	{t: 0.78, sky: core.Color{R: 0.88, G: 0.45, B: 0.22, A: 1}, sun: core.Color{R: 1.00, G: 0.60, B: 0.28, A: 1}, intensity: 0.7},
}

// DayNight orbits the sun light around the scene and tints it and the
// background over a looping day.
type DayNight struct {
	Time   float32 // 0..1: 0 noon, 0.25 sunset, 0.5 midnight, 0.75 sunrise
	Period float32 // seconds per day
	Active bool
	Orbit  float32 // distance of the sun from the origin
}

func NewDayNight() *DayNight {
	return &DayNight{Period: 120, Active: true, Orbit: 12}
}

func (dn *DayNight) Update(dt float32) {
	if !dn.Active || dn.Period <= 0 {
		return
	}
	dn.Time += dt / dn.Period
	dn.Time -= math32.Floor(dn.Time)
}

// lerpColor blends in CIE L*a*b* so sunset hues do not pass through grey.
func lerpColor(a, b core.Color, t float32) core.Color {
	ca := colorful.Color{R: float64(a.R), G: float64(a.G), B: float64(a.B)}
	cb := colorful.Color{R: float64(b.R), G: float64(b.G), B: float64(b.B)}
	c := ca.BlendLab(cb, float64(t)).Clamped()
	return core.Color{R: float32(c.R), G: float32(c.G), B: float32(c.B), A: 1}
}

// samplePalette interpolates the two key palettes around t.
func samplePalette(t float32) dayPalette {
	n := len(palettes)
	for i := 0; i < n; i++ {
		a, b := palettes[i], palettes[(i+1)%n]
		ta, tb := a.t, b.t
		if i == n-1 {
			tb = 1
		}
		local := t
		if i == n-1 && t < palettes[0].t {
			local = t + 1
		}
		if local >= ta && local < tb {
			f := (local - ta) / (tb - ta)
			return dayPalette{
				t:         t,
				sky:       lerpColor(a.sky, b.sky, f),
				sun:       lerpColor(a.sun, b.sun, f),
				intensity: a.intensity + (b.intensity-a.intensity)*f,
			}
		}
	}
	return palettes[0]
}

// Apply moves sun and sets the scene background for the current time.
func (dn *DayNight) Apply(s *scene.Scene, sun *scene.PointLight) {
	p := samplePalette(dn.Time)
	s.Background = p.sky
	if sun == nil {
		return
	}
	sin, cos := math32.Sincos(dn.Time * 2 * math32.Pi)
	sun.Origin = mgl32.Vec3{sin, cos, 0.35}.Normalize().Mul(dn.Orbit)
	sun.Colour = core.Color{
		R: p.sun.R * p.intensity,
		G: p.sun.G * p.intensity,
		B: p.sun.B * p.intensity,
		A: 1,
	}
}

// TimeOfDay returns a 12-hour clock label, noon at Time 0.
func (dn *DayNight) TimeOfDay() string {
	hours := math32.Mod(dn.Time*24+12, 24)
	h := int(hours)
	m := int((hours - float32(h)) * 60)
	period := "AM"
	if h >= 12 {
		period = "PM"
	}
	displayH := h % 12
	if displayH == 0 {
		displayH = 12
	}
	return fmt.Sprintf("%02d:%02d %s", displayH, m, period)
}
