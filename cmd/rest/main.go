package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"escapadas-chatbot-be/internal/bootstrap"
	"escapadas-chatbot-be/internal/config"
	"escapadas-chatbot-be/internal/server"
	"escapadas-chatbot-be/internal/tracer"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] %v", err)
	}

	// 2. Tracing (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer(cfg.App.OtelEnabled)

	// 3. Bootstrap Dependencies (Container)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := bootstrap.NewContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("[FATAL] Startup failed: %v", err)
	}

	// 4. Start Background Services
	if err := container.InteractionConsumer.Consume(ctx); err != nil {
		log.Fatalf("[FATAL] Interaction consumer: %v", err)
	}
	go container.WebSocketHub.Run()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		container.WebSocketHub.Stop()
		if err := srv.Shutdown(); err != nil {
			log.Printf("Server shutdown: %v", err)
		}
	}()

	// 6. Run Server
	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	container.Close()
	if err := shutdownTracer(flushCtx); err != nil {
		log.Printf("Tracer shutdown: %v", err)
	}
}
