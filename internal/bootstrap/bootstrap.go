package bootstrap

import (
	"github.com/muhammadchandra19/flashsale/pkg/config"
	"github.com/muhammadchandra19/flashsale/pkg/logger"
	"github.com/muhammadchandra19/flashsale/pkg/postgresql"
	"github.com/muhammadchandra19/flashsale/pkg/redis"

	orderevent "github.com/muhammadchandra19/flashsale/internal/infrastructure/kafka/order-event"
)

// Bootstrap holds every wired component of the reservation service.
type Bootstrap struct {
	Config     *config.Config
	Logger     logger.Interface
	Repository Repository
	Cache      Cache
	Usecase    Usecase
	HTTP       HTTP

	Redis      redis.Client
	PostgreSQL postgresql.PostgreSQLClient
	Publisher  orderevent.Publisher
}

// BootstrapConfig carries the connected clients owned by the caller.
type BootstrapConfig struct {
	Config     *config.Config
	Redis      redis.Client
	PostgreSQL postgresql.PostgreSQLClient
	Publisher  orderevent.Publisher
	Logger     logger.Interface
}

// Init initializes the bootstrap. A nil Publisher is replaced by a no-op one.
func (b *Bootstrap) Init(config BootstrapConfig) Bootstrap {
	b.Config = config.Config
	b.Redis = config.Redis
	b.PostgreSQL = config.PostgreSQL
	b.Publisher = config.Publisher
	b.Logger = config.Logger

	if b.Publisher == nil {
		b.Publisher = orderevent.NewNoopPublisher()
	}

	b.registerRepository()
	b.registerCache()
	b.registerUsecase()
	b.registerHTTP()

	return *b
}
