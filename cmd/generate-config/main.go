package main

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"cashgame-server/internal/config"
)

func main() {
	cfg := config.DefaultConfig()
	setupLogger(cfg)

	if err := yaml.NewEncoder(os.Stdout).Encode(cfg); err != nil {
		logrus.WithError(err).Fatal("could not encode config")
	}
}

func setupLogger(cfg config.Config) {
	if lvl := cfg.Log.Level; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logrus.SetLevel(level)
	}

	if strings.ToLower(cfg.Log.Format) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}
