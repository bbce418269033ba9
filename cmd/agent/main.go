package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jinohyoum/unimelb-room-booking-agent/internal/api"
	"github.com/jinohyoum/unimelb-room-booking-agent/internal/config"
	"github.com/jinohyoum/unimelb-room-booking-agent/internal/dialogue"
	"github.com/jinohyoum/unimelb-room-booking-agent/internal/extract"
	"github.com/jinohyoum/unimelb-room-booking-agent/internal/repository"
	"github.com/jinohyoum/unimelb-room-booking-agent/internal/service"
	"github.com/jinohyoum/unimelb-room-booking-agent/internal/submit"
	"github.com/jinohyoum/unimelb-room-booking-agent/internal/web"
)

func main() {
	serve := flag.Bool("serve", false, "run the HTTP server instead of the interactive chat loop")
	flag.Parse()

	config.LoadDotEnv()

	// Initialize the repository using the factory
	repo, err := repository.NewRepository(config.GetRedisConfig())
	if err != nil {
		log.Fatalf("Failed to initialize repository: %v", err)
	}

	// Close Redis properly on exit when it is in use
	if redisRepo, ok := repo.(interface{ Close() error }); ok {
		defer func() {
			if err := redisRepo.Close(); err != nil {
				log.Printf("Error closing Redis connection: %v", err)
			}
		}()
	}

	// Initialize the service layer with the browser submitter
	submitter := submit.NewDiBSSubmitter(config.GetBrowserConfig())
	bookingService := service.NewBookingService(repo, submitter)

	// Dialogue controller backed by the OpenAI extractor
	extractor := extract.NewOpenAIExtractor(config.GetOpenAIConfig())
	controller := dialogue.NewController(extractor, bookingService)

	if *serve {
		runServer(bookingService, controller)
		return
	}

	runChatLoop(controller)
}

// runChatLoop drives the conversation over stdin/stdout
func runChatLoop(controller *dialogue.Controller) {
	prefix := agentPrefix()
	reader := bufio.NewScanner(os.Stdin)

	fmt.Printf("%s %s\n", prefix, controller.Greeting())

	for {
		fmt.Print("You: ")
		if !reader.Scan() {
			fmt.Printf("\n%s Bye! Come back when you need a room.\n", prefix)
			return
		}

		reply := controller.HandleTurn(context.Background(), reader.Text())
		fmt.Printf("%s %s\n", prefix, reply)

		if controller.Done() {
			return
		}
	}
}

// agentPrefix colors the agent's lines unless NO_COLOR is set
func agentPrefix() string {
	if os.Getenv("NO_COLOR") != "" {
		return "Agent:"
	}
	return "\033[36mAgent:\033[0m"
}

// runServer exposes the agent over HTTP with a booking event feed
func runServer(bookingService *service.BookingService, controller *dialogue.Controller) {
	// Set up API routes with the booking service and dialogue controller
	mux := api.SetupRoutes(bookingService, controller)

	// Register the SSE feed for confirmed bookings
	sseManager := web.NewSSEManager()
	bookingService.RegisterUpdateCallback(sseManager.NotifyBookingConfirmed)
	mux.Handle("/events", sseManager)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disable write timeout for SSE connections
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		log.Printf("Starting booking agent server on port %s", port)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Fatalf("Error starting server: %v", err)

	case <-shutdown:
		log.Println("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// Doesn't block if there are no connections, but will otherwise
		// wait until the timeout deadline.
		if err := server.Shutdown(ctx); err != nil {
			server.Close()
			log.Fatalf("Error shutting down server: %v", err)
		}

		log.Println("Server gracefully stopped")
	}
}
