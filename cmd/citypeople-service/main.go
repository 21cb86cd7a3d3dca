// Package main — точка входа citypeople-service (HTTP + WebSocket).
package main

import (
	"log"

	"github.com/psds-microservice/citypeople-service/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
