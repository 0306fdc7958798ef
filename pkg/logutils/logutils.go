package logutils

import "strconv"

// ShortCallerFormatter formats a zerolog caller value
// keeping just the two last segments of the file path
func ShortCallerFormatter(file string, line int) string {
	short := file
	sep := 0
	for i := len(file) - 1; i > 0; i-- {
		if file[i] == '/' {
			sep++
			if sep == 2 {
				short = file[i+1:]
				break
			}
		}
	}
	return short + ":" + strconv.Itoa(line)
}
