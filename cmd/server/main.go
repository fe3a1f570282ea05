package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/postpilot/postpilot/configs"
	"github.com/postpilot/postpilot/internal/api/handlers"
	"github.com/postpilot/postpilot/internal/api/middleware"
	job "github.com/postpilot/postpilot/internal/jobs"
	"github.com/postpilot/postpilot/internal/queue"
	"github.com/postpilot/postpilot/internal/repository"
	"github.com/postpilot/postpilot/internal/service"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 2 * time.Minute,
		BodyLimit:    10 * 1024 * 1024, // 10 MB, image uploads only
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)

	graphClient := service.NewGraphClient()

	generator, err := service.NewGeminiGenerator(context.Background(), cfg.GeminiAPIKey)
	if err != nil {
		log.Fatalf("Failed to create Gemini client: %v", err)
	}

	r2Service, err := service.NewR2Service(*cfg)
	if err != nil {
		log.Fatalf("Failed to create R2 client: %v", err)
	}

	authService := service.NewAuthService(*cfg, userRepo)
	userService := service.NewUserService(userRepo)
	postService := service.NewPostService(postRepo)
	calendarService := service.NewCalendarService(generator, postRepo)
	uploadService := service.NewUploadService(postRepo, r2Service)
	metaService := service.NewMetaService(*cfg, userRepo, graphClient)
	publishService := service.NewPublishService(*cfg, userRepo, postRepo, graphClient)

	authMiddleware := middleware.NewAuthMiddleware(*cfg)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	auth := handlers.NewAuthHandler(*cfg, authService)
	app.Get("/login", auth.Login)
	app.Get("/login/callback", auth.LoginCallbackHandler)

	meta := handlers.NewMetaHandler(*cfg, metaService)
	app.Get("/auth/meta/connect_start", meta.ConnectStart)
	app.Get("/auth/meta/callback", meta.CallbackHandler)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	user := handlers.NewUserHandler(userService)
	api.Get("/user/info", user.GetUserInfo)
	api.Delete("/user", user.RemoveUser)

	calendar := handlers.NewCalendarHandler(calendarService)
	api.Post("/calendar/generate", calendar.GenerateCalendar)

	post := handlers.NewPostHandler(postService, publishService, client)
	api.Get("/posts", post.ListPosts)
	api.Patch("/posts/:id", post.UpdatePost)
	api.Delete("/posts/:id", post.RemovePost)
	api.Post("/posts/now", post.PublishNow)
	api.Post("/posts/schedule", post.SchedulePost)

	upload := handlers.NewUploadHandler(uploadService)
	api.Post("/upload/:id", upload.UploadImage)

	// cron jobs
	refreshTokenJob := job.NewMetaTokenRefreshJob(userRepo, metaService)

	// queue
	queueW := queue.NewQueue(publishService)

	c := cron.New()
	c.AddFunc("@every 00h10m00s", refreshTokenJob.RefreshTokens)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypePublishPost, queueW.HandlePublishPostTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":3000"); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Println("Server is running on http://localhost:3000")

	gracefulShutdown(app, db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
