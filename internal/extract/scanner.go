package extract

// firstObject returns the first balanced top-level {...} span in s.
//
// The scan is byte-level: '{', '}', '"' and '\' are ASCII, and UTF-8 never
// uses ASCII bytes inside a multi-byte sequence. String literals are only
// tracked inside an object, so a stray quote in surrounding prose does not
// swallow the payload.
func firstObject(s string) (string, bool) {
	var (
		depth    int
		start    = -1
		inString bool
		escape   bool
	)

	for i := 0; i < len(s); i++ {
		b := s[i]

		if escape {
			escape = false
			continue
		}

		if inString {
			switch b {
			case '\\':
				escape = true
			case '"':
				inString = false
			}
			continue
		}

		switch b {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}

	return "", false
}
