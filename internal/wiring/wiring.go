// Package wiring assembles the store, cloud adapters and services shared by the
// binaries from the loaded configuration.
package wiring

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/cloud"
	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/config"
	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/database"
	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/repository"
	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/repository/memory"
	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/scheduler"
	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/service"
)

type Env struct {
	Services *service.Services
	Lock     scheduler.Locker
	db       *sqlx.DB
}

func (e *Env) Close() {
	if e.db != nil {
		e.db.Close()
	}
}

func Build(ctx context.Context, log zerolog.Logger) (*Env, error) {
	env := &Env{}
	var store service.Store

	switch config.StoreDriver() {
	case "postgres":
		db, err := database.Connect()
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		if err := database.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		env.db = db
		env.Lock = repository.NewAdvisoryLock(db, config.SweepLockKey())
		store = repository.New(db)
	case "memory":
		mem := memory.New()
		SeedDemo(mem)
		env.Lock = &scheduler.LocalLock{}
		store = mem
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", config.StoreDriver())
	}

	opts := service.Options{
		Logger:         log,
		Location:       config.Location(),
		HighPowerWatts: config.HighPowerWatts(),
	}
	if config.UseCloudServices() {
		if arn := config.SNSTopicArn(); arn != "" {
			sns, err := cloud.NewSNSClient(ctx, config.AWSRegion(), arn)
			if err != nil {
				env.Close()
				return nil, err
			}
			opts.Notifier = sns
		}
		s3, err := cloud.NewS3Client(ctx, config.AWSRegion(), config.S3Bucket())
		if err != nil {
			env.Close()
			return nil, err
		}
		opts.Exporter = s3
		log.Info().Str("region", config.AWSRegion()).Msg("cloud services enabled")
	}

	env.Services = service.New(store, opts)
	return env, nil
}

// SeedDemo loads the devices published by cmd/simulator into a memory store.
func SeedDemo(mem *memory.Store) {
	f := mem.AddFacility("Central Parking")
	zones := []string{"B1", "B2"}
	for _, code := range zones {
		z := mem.AddZone(f.ID, "Basement "+code[1:], code)
		for i := 1; i <= 5; i++ {
			mem.AddDevice(z.ID, fmt.Sprintf("PARK-%s-S%03d", code, i), true, nil)
		}
		mem.SetTarget(z.ID, time.Now().In(config.Location()), 200)
	}
}
