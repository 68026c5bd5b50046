package main

import (
	"clipflow-service/app"
	"clipflow-service/pkg/observability"
)

func main() {
	observability.StartProfiling("clipflow-service")
	app.Run()
}
