package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"horizon/coach-api/internal/domain"
	"horizon/coach-api/internal/service"
)

// Services are the dependencies of the HTTP layer.
type Services struct {
	Auth         service.AuthService
	User         service.UserService
	Exercise     service.ExerciseService
	Workout      service.WorkoutService
	GroupWorkout service.GroupWorkoutService
	Intake       service.IntakeService
	Lifestyle    service.LifestyleService
	Health       service.HealthService
}

type RouterOptions struct {
	Logger  *zap.Logger
	Metrics *Metrics
	// Limiter guards login, register and refresh. Nil disables limiting.
	Limiter        *RateLimiter
	AllowedOrigins []string
	// ShowErrorDetails adds the internal error text to 500 responses.
	ShowErrorDetails bool
}

// NewRouter builds the engine with its middleware chain and every route.
func NewRouter(opts RouterOptions, services Services) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics()
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(RequestLogger(opts.Logger, opts.Metrics), Recovery(opts.Logger), corsMiddleware(opts.AllowedOrigins))
	router.NoRoute(func(c *gin.Context) {
		abortWithError(c, http.StatusNotFound, "Route not found.")
	})
	router.NoMethod(func(c *gin.Context) {
		abortWithError(c, http.StatusMethodNotAllowed, "Method not allowed.")
	})
	SetupRoutes(router, opts, services)
	return router
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	allowAll := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
	}
	if allowAll {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}

func SetupRoutes(router *gin.Engine, opts RouterOptions, services Services) {
	errs := errorResponder{logger: opts.Logger, showDetails: opts.ShowErrorDetails}

	authHandler := NewAuthHandler(services.Auth, services.User, errs)
	exerciseHandler := NewExerciseHandler(services.Exercise, errs)
	workoutHandler := NewWorkoutHandler(services.Workout, services.GroupWorkout, errs)
	groupHandler := NewGroupWorkoutHandler(services.GroupWorkout, errs)
	intakeHandler := NewIntakeHandler(services.Intake, errs)
	lifestyleHandler := NewLifestyleHandler(services.Lifestyle, errs)
	healthHandler := NewHealthHandler(services.Health, errs)

	authMiddleware := AuthMiddleware(services.Auth)
	trainerOnly := RoleMiddleware(domain.TrainerRoles...)

	var limit gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if opts.Limiter != nil {
		limit = opts.Limiter.Middleware()
	}

	router.GET("/ping", healthHandler.Ping)
	router.GET("/metrics", opts.Metrics.Handler())

	apiGroup := router.Group("/api")
	apiGroup.GET("/health", healthHandler.Health)

	// --- Public Routes ---
	usersPublic := apiGroup.Group("/users", limit)
	{
		usersPublic.POST("/login", authHandler.Login)
		usersPublic.POST("/register", authHandler.Register)
		usersPublic.POST("/refresh", authHandler.Refresh)
	}
	apiGroup.GET("/group-workouts/last10", groupHandler.GetLast10Workouts)
	apiGroup.GET("/group-workouts/most-used", groupHandler.GetMostUsedWorkouts)

	protected := apiGroup.Group("")
	protected.Use(authMiddleware)
	{
		users := protected.Group("/users")
		{
			users.GET("/me", authHandler.Me)
			users.GET("", trainerOnly, authHandler.ListUsers)
		}

		// --- Exercise Routes ---
		exercises := protected.Group("/exercises")
		{
			exercises.GET("", exerciseHandler.GetExercises)
			exercises.GET("/:id", exerciseHandler.GetExerciseByID)
			exercises.GET("/:id/media", exerciseHandler.GetMediaURL)
			exercises.POST("", trainerOnly, exerciseHandler.CreateExercise)
			exercises.PUT("/:id", trainerOnly, exerciseHandler.UpdateExercise)
			exercises.DELETE("/:id", trainerOnly, exerciseHandler.DeleteExercise)
			exercises.POST("/:id/media", trainerOnly, exerciseHandler.RequestMediaUpload)
		}

		// --- Workout Routes ---
		workouts := protected.Group("/workouts")
		{
			workouts.GET("", workoutHandler.GetWorkouts)
			workouts.POST("", workoutHandler.CreateWorkout)
			workouts.GET("/history", workoutHandler.GetWorkoutHistory)
			workouts.GET("/assigned", workoutHandler.GetAssignedWorkouts)
			workouts.GET("/per-week", workoutHandler.GetWorkoutsPerWeek)
			workouts.GET("/progress/:exerciseId", workoutHandler.GetExerciseProgress)
			workouts.GET("/suggested-weights/:workoutId", workoutHandler.GetSuggestedWeights)
			workouts.GET("/public/:user_id", workoutHandler.GetPublicWorkoutHistory)
			workouts.POST("/create-and-assign", trainerOnly, workoutHandler.CreateAndAssignWorkout)
			workouts.GET("/:id", workoutHandler.GetWorkoutDetails)
		}

		// --- Group Workout Routes ---
		groups := protected.Group("/group-workouts")
		{
			groups.GET("", groupHandler.GetGroupWorkouts)
			groups.GET("/level", groupHandler.GetWorkoutsByLevel)
			groups.GET("/your", groupHandler.GetYourWorkouts)
			groups.GET("/search", groupHandler.SearchWorkouts)
			groups.GET("/history/:id", groupHandler.GetWorkoutHistory)
			groups.GET("/:id", groupHandler.GetGroupWorkoutDetails)
			groups.POST("", trainerOnly, groupHandler.CreateGroupWorkout)
			groups.POST("/edit/:id", trainerOnly, groupHandler.EditGroupWorkout)
			groups.POST("/finish/:id", groupHandler.FinishGroupWorkout)
		}

		// --- Intake & Lifestyle Routes ---
		protected.GET("/intake/:user_id", intakeHandler.GetIntakeData)
		protected.POST("/intake/:user_id", intakeHandler.AddIntakeData)

		lifestyle := protected.Group("/lifestyle-data")
		{
			lifestyle.GET("/:user_id", lifestyleHandler.GetLifestyleData)
			lifestyle.POST("/:user_id", lifestyleHandler.AddLifestyleData)
			lifestyle.POST("", lifestyleHandler.AddLifestyleData)
		}
	}
}
