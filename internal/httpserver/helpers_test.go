package httpserver

import "fmt"

func path(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}
