package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"bustracker-backend/internal/database"
	"bustracker-backend/internal/expiry"
	"bustracker-backend/internal/handlers"
	"bustracker-backend/internal/middleware"
	"bustracker-backend/internal/stream"
	"bustracker-backend/internal/tracking"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
)

func main() {
	log.Println("🚌 BUSTRACKER BACKEND SERVER STARTING")

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env file not found, using environment variables from system")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}
	if os.Getenv("APP_JWT_SECRET") == "" {
		log.Fatal("APP_JWT_SECRET environment variable is required")
	}

	// Connect to database
	db, err := database.Connect(dbURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("❌ Database migrations failed: %v", err)
	}
	log.Println("✅ Database migrations completed")

	// Seed demo accounts
	if err := database.SeedUsers(db); err != nil {
		log.Fatalf("❌ User seeding failed: %v", err)
	}

	// Typed query layers, injected into every component
	users := database.NewUserQueries(db)
	routes := database.NewRouteQueries(db)
	rides := database.NewRideQueries(db)
	locations := database.NewLocationQueries(db)

	ingestor := tracking.NewIngestor(rides, locations)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Location retention sweep
	sweeper := expiry.NewSweeper(locations, expiry.DefaultRetention, expiry.DefaultSweepInterval)
	go sweeper.Run(ctx)
	log.Println("✅ Location expiry sweeper started")

	// Create router
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Authentication routes (no auth required)
	r.Post("/api/auth/signup", handlers.Signup(users))
	r.Post("/api/auth/login", handlers.Login(users))

	// Live location stream (handshake via ride_id query param)
	r.Get("/location/stream", stream.HandleLocationStream(rides, locations, tracking.DefaultPollInterval))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth)

			r.Get("/auth/me", handlers.Me(users))

			// Passenger endpoints
			r.Get("/user/routes/search", handlers.SearchRoutes(routes))
			r.Get("/user/rides/{rideId}", handlers.GetRideDetails(rides, locations))
		})

		// Driver endpoints (require authentication + driver role)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth)
			r.Use(middleware.RequireRole("driver"))

			r.Post("/driver/routes", handlers.CreateRoute(routes))
			r.Get("/driver/routes", handlers.ListRoutes(routes))

			r.Post("/driver/rides/start", handlers.StartRide(rides, routes))
			r.Post("/driver/rides/end", handlers.EndRide(rides))
			r.Get("/driver/rides/active", handlers.GetActiveRide(rides))

			// Batched GPS reports during an active ride
			r.Post("/location/update", handlers.UpdateLocation(ingestor))
		})
	})

	// Get port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		log.Printf("🚀 Server starting on http://localhost:%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("⏳ Shutting down...")
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Printf("❌ Server shutdown failed: %v", err)
	}
	log.Println("✅ Server stopped")
}
