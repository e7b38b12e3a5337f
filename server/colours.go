package server

import "fmt"

// ANSI colours for the DEV route log.
const (
	ansiGreen   = "\033[32m"
	ansiYellow  = "\033[33m"
	ansiBlue    = "\033[34m"
	ansiMagenta = "\033[35m"
	ansiCyan    = "\033[36m"
	ansiGray    = "\033[90m"
	ansiReset   = "\033[0m"
)

var methodColours = map[string]string{
	"GET":    ansiGreen,
	"POST":   ansiBlue,
	"PUT":    ansiCyan,
	"DELETE": ansiYellow,
	"PATCH":  ansiMagenta,
}

// colourMethod pads method to a fixed width and wraps it in its colour.
// Routes registered without a method are shown in gray.
func colourMethod(method string) string {
	colour, ok := methodColours[method]
	if !ok {
		colour = ansiGray
	}
	return fmt.Sprintf("%s %-7s%s", colour, method, ansiReset)
}
