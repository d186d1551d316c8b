package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/nexora-labs/website-backend/config"
	"github.com/nexora-labs/website-backend/internal/bootstrap"
	"github.com/nexora-labs/website-backend/internal/digest"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: worker digest [--once]")
	}

	switch os.Args[1] {
	case "digest":
		runDigest(len(os.Args) > 2 && os.Args[2] == "--once")
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}

func runDigest(once bool) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	store, closeStore, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer closeStore()

	mailer, err := bootstrap.NewMailer(cfg)
	if err != nil {
		log.Fatalf("mailer: %v", err)
	}

	job := digest.NewJob(store, mailer, nil)

	if once {
		if _, err := job.Run(ctx); err != nil {
			log.Printf("digest failed: %v", err)
		}
		return
	}

	scheduler, err := digest.NewScheduler(cfg.Digest.Schedule, job)
	if err != nil {
		log.Fatalf("scheduler: %v", err)
	}
	scheduler.Start()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	<-scheduler.Stop().Done()
	log.Println("worker stopped")
}
