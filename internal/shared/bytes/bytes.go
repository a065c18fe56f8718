package bytes

import "strconv"

var units = [...]struct {
	name string
	size uint64
}{
	{"TB", 1 << 40},
	{"GB", 1 << 30},
	{"MB", 1 << 20},
	{"KB", 1 << 10},
}

// FmtMem renders a byte amount in the two most significant binary units, e.g. "3MB 512KB".
func FmtMem(n uint64) string {
	for i, u := range units {
		if n < u.size {
			continue
		}
		rest, restName := n%u.size, "B"
		if i+1 < len(units) {
			rest, restName = rest/units[i+1].size, units[i+1].name
		}
		return strconv.FormatUint(n/u.size, 10) + u.name + " " + strconv.FormatUint(rest, 10) + restName
	}
	return strconv.FormatUint(n, 10) + "B"
}

// FmtLimit renders a non-positive limit as "INF".
func FmtLimit(limit int64) string {
	if limit <= 0 {
		return "INF"
	}
	return FmtMem(uint64(limit))
}
