package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"resume-assistant-be/internal/bootstrap"
	"resume-assistant-be/internal/config"
	"resume-assistant-be/internal/server"
	"resume-assistant-be/internal/tracer"
)

func main() {
	shutdownTracer := tracer.InitTracer("resume-assistant-be")
	defer shutdownTracer(context.Background())

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := bootstrap.NewContainer(ctx, cfg)
	if err != nil {
		log.Panicf("Unable to bootstrap dependencies: %v", err)
	}
	defer container.Close()

	log.Println("Background: Starting Consumer Service...")
	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Panicf("Background Consumer Error: %v", err)
	}

	srv := server.New(cfg, container)

	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		if err := srv.Shutdown(); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
