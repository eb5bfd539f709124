package cli

import (
	"strings"

	"github.com/joho/godotenv"

	"github.com/openfisc/govledger/kafka"
	"github.com/openfisc/govledger/ledger"
	"github.com/openfisc/govledger/postgres"
)

// Environment variables read after loading an optional .env file:
//
//	GOVLEDGER_PG_DSN        PostgreSQL DSN for a durable entry store
//	GOVLEDGER_KAFKA_BROKERS comma-separated broker list for event publishing
//	GOVLEDGER_KAFKA_TOPIC   topic for committed-transaction events
const (
	envPostgresDSN  = "GOVLEDGER_PG_DSN"
	envKafkaBrokers = "GOVLEDGER_KAFKA_BROKERS"
	envKafkaTopic   = "GOVLEDGER_KAFKA_TOPIC"
)

// environ holds the resolved external-service configuration.
type environ struct {
	dsn     string
	brokers []string
	topic   string
}

// loadEnviron loads a .env file when present and resolves the external
// service settings. A missing .env file is not an error; flags and the
// process environment still apply.
func loadEnviron(envFile string, lookup func(string) string) environ {
	if envFile != "" {
		_ = godotenv.Load(envFile)
	} else {
		_ = godotenv.Load()
	}

	env := environ{
		dsn:   lookup(envPostgresDSN),
		topic: lookup(envKafkaTopic),
	}
	if brokers := lookup(envKafkaBrokers); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				env.brokers = append(env.brokers, b)
			}
		}
	}
	return env
}

// store returns the durable entry store, or nil when no DSN is set.
func (e environ) store() (ledger.Store, error) {
	if e.dsn == "" {
		return nil, nil
	}
	return postgres.Open(e.dsn)
}

// publisher returns the event publisher, or nil when no brokers are set.
func (e environ) publisher() ledger.EventPublisher {
	if len(e.brokers) == 0 {
		return nil
	}
	return kafka.NewPublisher(e.brokers, e.topic)
}
