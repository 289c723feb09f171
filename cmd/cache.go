package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/lepinkainen/argos/internal/cache"
)

func (c *ClearCmd) Run() error {
	db, err := cache.Global()
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}

	if c.Expired {
		ttl := cache.DefaultTTL
		if parsed, err := time.ParseDuration(viper.GetString("cache.ttl")); err == nil {
			ttl = parsed
		}
		return db.ClearExpired(ttl)
	}

	rows, err := db.Clear()
	if err != nil {
		return err
	}
	fmt.Printf("Removed %d cached responses\n", rows)
	return nil
}
