package app

import "galeranotify/internal/config"

func loadForTest(path string) (*config.Config, error) {
	cfg, _, err := config.Load(path, nil)
	return cfg, err
}
