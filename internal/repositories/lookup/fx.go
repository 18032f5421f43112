package lookup

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/insta-viewer/pkg/logger"
	"go.uber.org/fx"
)

var Module = fx.Module("lookup_repository",
	fx.Provide(New),
)

// New picks the Postgres repository when a pool exists and Nop otherwise.
func New(pg *pgxpool.Pool, log logger.Logger) Repository {
	if pg == nil {
		log.Warn("Postgres is not configured, lookups will not be stored")
		return Nop{}
	}
	return NewPgx(pg, log)
}
