package main

import (
	"os"

	"noticias.lat/hub/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
