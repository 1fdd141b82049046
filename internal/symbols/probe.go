package symbols

import "github.com/codereef/lspbridge/internal/protocol"

// ProbePositions returns the up-to-4 candidate positions used for hover,
// signature help, and completion: (line, character), (line,
// character-1), (line-1, character), (line-1, character-1), each
// clamped to >= 0 and deduplicated in order.
func ProbePositions(line, character uint32) []protocol.Position {
	clamp := func(v uint32, delta int) (uint32, bool) {
		iv := int(v) + delta
		if iv < 0 {
			return 0, false
		}
		return uint32(iv), true
	}

	candidates := make([]protocol.Position, 0, 4)
	seen := map[protocol.Position]bool{}
	add := func(l, c uint32, lOK, cOK bool) {
		if !lOK || !cOK {
			return
		}
		p := protocol.Position{Line: l, Character: c}
		if seen[p] {
			return
		}
		seen[p] = true
		candidates = append(candidates, p)
	}

	l0, l0ok := line, true
	c0, c0ok := character, true
	add(l0, c0, l0ok, c0ok)

	cMinus, cMinusOK := clamp(character, -1)
	add(l0, cMinus, l0ok, cMinusOK)

	lMinus, lMinusOK := clamp(line, -1)
	add(lMinus, c0, lMinusOK, c0ok)

	add(lMinus, cMinus, lMinusOK, cMinusOK)

	return candidates
}
