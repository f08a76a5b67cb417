package horarios

import "time"

// IsOpen reports whether a candidate turno start falls inside one of that
// day's open blocks. The interval is half-open: a turno starting exactly at
// opening time is accepted, one starting exactly at closing time is not.
//
// The comparison is lexicographic on zero-padded "HH:MM" strings, which is
// equivalent to a time comparison as long as both bounds use that format.
// Only the start is checked: a turno validated here may still run past the
// end of its block.
func (s *Store) IsOpen(candidate time.Time) bool {
	blocks := s.Blocks(FromTime(candidate.Weekday()))
	if len(blocks) == 0 {
		return false
	}

	t := candidate.Format("15:04")
	for _, block := range blocks {
		if t >= block.From && t < block.To {
			return true
		}
	}

	return false
}
