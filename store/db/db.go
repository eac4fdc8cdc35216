package db

import (
	"github.com/pkg/errors"

	"github.com/landingchat/landingchat/internal/profile"
	"github.com/landingchat/landingchat/store"
	"github.com/landingchat/landingchat/store/db/postgres"
	"github.com/landingchat/landingchat/store/db/sqlite"
)

// NewDBDriver creates new db driver based on profile.
//
// SQLite serves dev and demo modes and small single-host deployments.
// PostgreSQL is the production database.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	case "postgres":
		driver, err = postgres.NewDB(profile)
	default:
		return nil, errors.New("unknown db driver: only 'postgres' and 'sqlite' are supported")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
