package core

import (
	"strconv"
	"strings"
)

// ParseColorLiteral reads the three colour components out of a built-in
// shader name such as "(1 0 0)", "[0 1 0]" or "<0.5 0.5 1>". Components that
// are missing or malformed are left at zero and alpha is set to 1.
func ParseColorLiteral(name string, open, close byte) Color {
	c := Color{A: 1}
	if len(name) < 2 || name[0] != open {
		return c
	}
	body := name[1:]
	if i := strings.IndexByte(body, close); i >= 0 {
		body = body[:i]
	}

	dst := []*float32{&c.R, &c.G, &c.B}
	for i, field := range strings.Fields(body) {
		if i >= len(dst) {
			break
		}
		v, err := strconv.ParseFloat(field, 32)
		if err != nil {
			// scanning stops at the first bad token
			break
		}
		*dst[i] = float32(v)
	}
	return c
}

// FormatColorLiteral is the inverse of ParseColorLiteral; alpha is dropped.
func FormatColorLiteral(open, close byte, c Color) string {
	var sb strings.Builder
	sb.WriteByte(open)
	for i, v := range [3]float32{c.R, c.G, c.B} {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32))
	}
	sb.WriteByte(close)
	return sb.String()
}
