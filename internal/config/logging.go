package config

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// ConfigureLogging sets up the process-wide logrus logger: JSON output in
// production, human-readable text elsewhere.
func ConfigureLogging(cfg Config) {
	if cfg.IsProduction() {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	log.SetOutput(os.Stdout)
	lvl, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("unknown LOG_LEVEL, using info")
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}
