package handlers

import (
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// numberParam reads a numeric path segment the way a JavaScript client would
// coerce it: blank is 0, anything unparsable is NaN. NaN is passed on to the
// store, where it matches nothing.
func numberParam(c *fiber.Ctx, key string) float64 {
	return coerceNumber(textParam(c, key))
}

// textParam returns the URL-decoded path segment.
func textParam(c *fiber.Ctx, key string) string {
	raw := c.Params(key)
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

func coerceNumber(raw string) float64 {
	s := strings.TrimSpace(raw)
	switch s {
	case "":
		return 0
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	if strings.Contains(s, "_") {
		return math.NaN()
	}

	// 0x / 0o / 0b integer literals, unsigned only.
	if len(s) > 2 && s[0] == '0' && strings.ContainsRune("xXoObB", rune(s[1])) {
		n, err := strconv.ParseUint(s, 0, 64)
		if err != nil {
			return math.NaN()
		}
		return float64(n)
	}

	// strconv also knows "inf" and "nan"; those are not numbers here.
	lower := strings.ToLower(s)
	if strings.Contains(lower, "inf") || strings.Contains(lower, "nan") {
		return math.NaN()
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return f
		}
		return math.NaN()
	}
	return f
}
