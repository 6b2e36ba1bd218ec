package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/shiroonigami23-ui/disruption-response-pipeline/internal/config"
	"github.com/shiroonigami23-ui/disruption-response-pipeline/internal/contracts"
	"github.com/shiroonigami23-ui/disruption-response-pipeline/internal/mq"
	"github.com/shiroonigami23-ui/disruption-response-pipeline/internal/storage"
)

// alert-archiver is the durability collaborator: it consumes broadcast
// alerts from the alerts topic and snapshots them verbatim into Postgres on
// its own schedule. The pipeline core never blocks on it.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := storage.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("alert-archiver database error: %v", err)
	}
	defer dbPool.Close()

	if err := storage.RunMigrations(ctx, dbPool); err != nil {
		log.Fatalf("alert-archiver migration error: %v", err)
	}

	repo := storage.NewRepository(dbPool)

	reader := mq.NewReader(cfg.KafkaBrokers, cfg.KafkaTopicAlerts, cfg.ConsumerGroupPrefix+"-alert-archiver")
	defer reader.Close()

	log.Printf("alert-archiver consuming %s", cfg.KafkaTopicAlerts)

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				log.Println("alert-archiver shutting down")
				return
			}
			log.Printf("alert-archiver read error: %v", err)
			time.Sleep(500 * time.Millisecond)
			continue
		}

		alert, err := mq.DecodeMessage[contracts.Alert](msg)
		if err != nil {
			log.Printf("alert-archiver decode error: %v", err)
			continue
		}
		if alert.ID == "" {
			log.Printf("alert-archiver skipping alert without id (key=%s)", string(msg.Key))
			continue
		}

		if err := repo.ArchiveAlert(ctx, alert); err != nil {
			log.Printf("alert-archiver store error: %v", err)
			continue
		}

		log.Printf("archived alert id=%s identity=%s severity=%s sent=%d",
			alert.ID, alert.Identity, alert.Severity, alert.NotificationsSent)
	}
}
