package config

import (
	"reflect"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port   int    `env:"PORT" envDefault:"8080"`
		Origin string `env:"ORIGIN" envDefault:"http://localhost:3000"`
	}

	// Public base URL for building links to this backend (metadata URIs)
	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`

	Solana struct {
		RPCURL     string        `env:"SOLANA_RPC_URL" envDefault:"https://api.devnet.solana.com"`
		Network    string        `env:"SOLANA_NETWORK" envDefault:"devnet"`
		Commitment string        `env:"SOLANA_COMMITMENT" envDefault:"confirmed"`
		RPCTimeout time.Duration `env:"SOLANA_RPC_TIMEOUT" envDefault:"10s"`
	}

	Payment struct {
		// Required payment in SOL for one generation
		Amount          decimal.Decimal `env:"X402_PAYMENT_AMOUNT" envDefault:"0.01"`
		RecipientWallet string          `env:"X402_RECIPIENT_WALLET" envDefault:"4YweNXQbjMMDnD2sBG5FSWDP5mnqeu1gmCm48r4WV9q3"`

		// AllowSkip enables the debug bypass of payment verification.
		// Must stay false in any production configuration.
		AllowSkip bool `env:"X402_ALLOW_SKIP" envDefault:"false"`

		// ReplayProtection records consumed signatures in Redis so a
		// verified transaction cannot pay for more than one generation.
		ReplayProtection bool          `env:"X402_REPLAY_PROTECTION" envDefault:"true"`
		SignatureTTL     time.Duration `env:"X402_SIGNATURE_TTL" envDefault:"24h"`
	}

	Redis struct {
		Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}
}

func Load() *Config {
	// .env is optional, variables may be set directly in the environment
	_ = godotenv.Load()

	cfg := &Config{}
	opts := env.Options{
		FuncMap: map[reflect.Type]env.ParserFunc{
			reflect.TypeOf(decimal.Decimal{}): func(v string) (interface{}, error) {
				return decimal.NewFromString(v)
			},
		},
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		panic(err)
	}

	return cfg
}
