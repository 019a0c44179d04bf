package main

import (
	"os"

	"github.com/moneta-app/moneta/internal/app"
	log "github.com/sirupsen/logrus"
)

func main() {
	configureLogging()

	application, err := app.NewApplication()
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}
	if err := application.Run(); err != nil {
		log.Fatal(err)
	}
}

// configureLogging sets the log level from LOG_LEVEL, defaulting to info.
func configureLogging() {
	level := log.InfoLevel
	if env := os.Getenv("LOG_LEVEL"); env != "" {
		parsed, err := log.ParseLevel(env)
		if err != nil {
			log.Fatalf("invalid LOG_LEVEL %q: %v", env, err)
		}
		level = parsed
	}
	log.SetLevel(level)
}
