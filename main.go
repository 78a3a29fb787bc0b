package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blindmatch_server/config"
	"blindmatch_server/controllers"
	"blindmatch_server/detector"
	"blindmatch_server/routes"
	"blindmatch_server/services"
	"blindmatch_server/socket"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

func main() {
	// Load configuration (defaults when no file is given)
	cfg := config.Default()
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			log.Fatalf("❌ Failed to load config from %s: %v", path, err)
		}
		cfg = loaded
		log.Printf("Loaded configuration from %s", path)
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize DynamoDB client and service
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	// Stores
	matchStore := &services.DynamoMatchStore{Dynamo: dynamoService}
	preferenceStore := &services.DynamoPreferenceStore{Dynamo: dynamoService}
	blockStore := &services.DynamoBlockStore{Dynamo: dynamoService}
	auditStore := &services.DynamoAuditStore{Dynamo: dynamoService}
	messageStore := &services.DynamoMessageStore{Dynamo: dynamoService}

	// Detection rules, with optional YAML overrides
	ruleSet := detector.DefaultRuleSet()
	if cfg.Filter.RulesFile != "" {
		ruleSet, err = detector.LoadRuleSet(cfg.Filter.RulesFile)
		if err != nil {
			log.Fatalf("❌ Failed to load filter rules from %s: %v", cfg.Filter.RulesFile, err)
		}
		log.Printf("Loaded filter rule overrides from %s", cfg.Filter.RulesFile)
	}
	rules, err := detector.Compile(ruleSet)
	if err != nil {
		log.Fatalf("❌ Failed to compile filter rules: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Remote classifier is optional: without a key the filter is local-only
	var classifier services.Classifier
	if cfg.Filter.ClassifierEnabled {
		apiKey := cfg.GeminiAPIKey()
		if apiKey == "" {
			log.Println("⚠️ Classifier enabled but no API key configured, running local-only")
		} else {
			gemini, err := services.NewGeminiClassifier(ctx, apiKey, cfg.Gemini.Model, logger)
			if err != nil {
				log.Fatalf("❌ Failed to initialize classifier: %v", err)
			}
			defer gemini.Close()
			classifier = gemini
			log.Printf("Remote classifier enabled (model %s)", cfg.Gemini.Model)
		}
	}

	// Socket.IO server for real-time events
	socketServer := socket.NewSocketServer()
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Printf("❌ Socket server error: %v", err)
		}
	}()
	defer socketServer.Close()
	notifier := &socket.Notifier{Server: socketServer}

	// Domain services
	filterService := services.NewFilterService(rules, classifier, cfg.ClassifierTimeout(), auditStore, logger)
	lifecycleService := &services.LifecycleService{Matches: matchStore, Notifier: notifier}
	matcherService := &services.MatcherService{
		Matches:     matchStore,
		Preferences: preferenceStore,
		Blocks:      blockStore,
		Notifier:    notifier,
	}
	preferenceService := &services.PreferenceService{Preferences: preferenceStore, Blocks: blockStore}
	chatService := &services.BlindChatService{
		Messages:  messageStore,
		Matches:   matchStore,
		Lifecycle: lifecycleService,
		Filter:    filterService,
		Notifier:  notifier,
	}

	// Background matching loop
	if cfg.Scheduler.Enabled {
		scheduler := services.NewMatchScheduler(matcherService, cfg.MinInterval(), cfg.MaxInterval(), logger)
		go scheduler.Run(ctx)
	} else {
		log.Println("⚠️ Background matching scheduler disabled by config")
	}

	// Initialize the router
	r := mux.NewRouter()

	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to BlindMatch")
	}).Methods("GET")
	r.HandleFunc("/health", controllers.HealthCheckHandler).Methods("GET")
	r.HandleFunc("/privacy-policy", routes.PrivacyPolicyHandler).Methods("GET")
	r.Handle("/socket.io/", socketServer)

	routes.RegisterPreferenceRoutes(r, preferenceService)
	routes.RegisterBlindMatchRoutes(r, matcherService, lifecycleService)
	routes.RegisterBlindChatRoutes(r, chatService)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: corsHandler,
	}

	go func() {
		log.Printf("Starting server on port %s...\n", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Graceful shutdown failed: %v", err)
	}
	log.Println("Server stopped.")
}
