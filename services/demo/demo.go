package main

import (
	"context"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/sirupsen/logrus"

	"github.com/twinbridge/twinbridge/core/csql"
	"github.com/twinbridge/twinbridge/core/logger"
	"github.com/twinbridge/twinbridge/gateway"
	"github.com/twinbridge/twinbridge/notify"
	"github.com/twinbridge/twinbridge/storage"
	"github.com/twinbridge/twinbridge/storage/postgres"
	"github.com/twinbridge/twinbridge/twin"
)

// Service holds the configuration for this service
//
// use POSTGRES="host=localhost port=5432 user=postgres password=docker dbname=postgres sslmode=disable"
type Service struct {
	Host         string   `env:"HOST,default=0.0.0.0" description:"the address the gateway binds to"`
	Port         int      `env:"PORT,default=3000" description:"the port the gateway binds to"`
	LogLevel     string   `env:"LOG_LEVEL,default=debug" description:"the log level"`
	Postgres     string   `env:"POSTGRES" description:"the connection string for the Postgres DB, enables twin history"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" description:"kafka brokers for event notification fan-out"`
	KafkaTopic   string   `env:"KAFKA_TOPIC,default=twin-notifications" description:"kafka topic for event notification fan-out"`
}

// loggingSubmitter consumes forwarded actions. The demo has no physical
// asset behind it, so it only logs what it receives.
type loggingSubmitter struct{}

func (loggingSubmitter) SubmitAction(ctx context.Context, actionKey string, payload []byte) error {
	logger.Default().Infoln("action received:", actionKey, string(payload))
	return nil
}

func main() {
	service := &Service{}
	if err := envdecode.Decode(service); err != nil {
		panic(err)
	}
	level, err := logrus.ParseLevel(service.LogLevel)
	if err != nil {
		panic(err)
	}
	logger.InitLogger(level)

	builder := &gateway.Builder{
		Config: gateway.NewConfig("demo-gateway", service.Host, service.Port),
		Instance: &twin.Instance{
			ID:               "demo-twin",
			PhysicalAssets:   []string{"demo-room"},
			PhysicalAdapters: []string{"demo-sensor-adapter"},
			DigitalAdapters:  []string{"demo-gateway"},
		},
		Actions: loggingSubmitter{},
	}

	var recorder storage.Recorder
	if service.Postgres != "" {
		db := csql.OpenWithSchema(service.Postgres, "demo")
		defer db.Close()
		store, err := postgres.New(db)
		if err != nil {
			panic(err)
		}
		builder.Storage = store
		recorder = store
	}

	if len(service.KafkaBrokers) > 0 {
		publisher := notify.NewKafkaPublisher(service.KafkaBrokers, service.KafkaTopic)
		defer publisher.Close()
		builder.Notifier = publisher
	}

	g := gateway.New(builder)
	if err := g.Start(); err != nil {
		panic(err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})
	go simulateTwin(g, recorder, done)

	<-stop
	close(done)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	g.Stop(ctx)
}

// simulateTwin plays the role of the twin engine: it recomputes a small
// room climate state every two seconds and fires an overheating event
// whenever the temperature passes 28 degrees.
func simulateTwin(g *gateway.Gateway, recorder storage.Recorder, done chan struct{}) {
	actions := []twin.Action{
		{Key: "set-target-temperature", Type: "climate.actuation", ContentType: "application/json"},
	}
	events := []twin.Event{
		{Key: "overheating", Type: "climate.alert"},
	}

	temperature := 21.0
	humidity := 40.0
	var previous *twin.Snapshot
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
		}

		temperature += rand.Float64()*2.0 - 0.8
		humidity += rand.Float64()*4.0 - 2.0
		properties := []twin.Property{
			{Key: "temperature", Type: "climate.measurement", Value: temperature},
			{Key: "humidity", Type: "climate.measurement", Value: humidity},
		}
		snapshot := twin.NewSnapshot(time.Now(), properties, actions, events, nil)

		changes := []twin.Change{}
		for _, property := range properties {
			kind := twin.ChangePropertyUpdated
			if previous == nil {
				kind = twin.ChangePropertyAdded
			}
			changes = append(changes, twin.Change{Kind: kind, Key: property.Key, After: property.Value})
		}
		g.OnStateUpdate(snapshot, previous, changes)
		previous = snapshot

		if recorder != nil {
			if err := recorder.RecordSnapshot(context.Background(), snapshot); err != nil {
				logger.Default().WithError(err).Errorln("record snapshot")
			}
		}

		if temperature > 28.0 {
			notification := twin.NewEventNotification("overheating", map[string]interface{}{
				"temperature": temperature,
			})
			g.OnEventNotification(notification)
			if recorder != nil {
				if err := recorder.RecordNotification(context.Background(), notification); err != nil {
					logger.Default().WithError(err).Errorln("record notification")
				}
			}
		}
	}
}
