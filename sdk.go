package apkcfg

import (
	"strconv"
	"strings"
)

// APILevels maps platform codenames to their API level.
var APILevels = map[string]int{
	"G":       9,
	"I":       14,
	"J":       16,
	"J-MR1":   17,
	"J-MR2":   18,
	"K":       19,
	"L":       21,
	"L-MR1":   22,
	"M":       23,
	"N":       24,
	"N-MR1":   25,
	"O":       26,
	"O-MR1":   27,
	"P":       28,
	"Q":       29,
	"R":       30,
	"S":       31,
	"S-V2":    32,
	"T":       33,
	"U":       34,
	"V":       35,
	"BAKLAVA": 36,
}

// ParseAPILevel parses s as either an integer API level
// or a codename from APILevels.
func ParseAPILevel(s string) (int, bool) {
	s = strings.TrimSpace(s)

	if level, err := strconv.Atoi(s); err == nil {
		return level, true
	}

	level, ok := APILevels[strings.ToUpper(s)]
	return level, ok
}
