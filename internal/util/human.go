package util

import "fmt"

var byteUnits = []struct {
	shift uint
	name  string
}{
	{30, "GB"},
	{20, "MB"},
	{10, "KB"},
}

// Human formats a byte count with two decimals in the largest binary unit
// that fits.
func Human(n int64) string {
	for _, u := range byteUnits {
		if n >= 1<<u.shift {
			return fmt.Sprintf("%.2f %s", float64(n)/float64(int64(1)<<u.shift), u.name)
		}
	}

	return fmt.Sprintf("%d B", n)
}
