package frame

import "strconv"

func toInt(s string) (int, bool) {
	v, e := strconv.ParseInt(s, 10, 64)
	if e != nil {
		return 0, false
	}

	return int(v), true
}

func toFloat(s string) (float64, bool) {
	v, e := strconv.ParseFloat(s, 64)
	if e != nil {
		return 0, false
	}

	return v, true
}
