package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"marketplace/cmd"
	httpadapter "marketplace/internal/adapters/in/http"
	"marketplace/internal/adapters/out/postgres/agentrepo"
	"marketplace/internal/adapters/out/postgres/menurepo"
	"marketplace/internal/adapters/out/postgres/orderrepo"
	"marketplace/internal/adapters/out/postgres/paymentrepo"
	"marketplace/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()

	db := openDatabase(configs)

	app := cmd.NewCompositionRoot(configs, db)

	jobManager := jobs.NewJobManager(
		app.CreateAssignAgentCommandHandler(),
		slog.New(slog.NewJSONHandler(os.Stdout, nil)),
	)
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(app, configs)
}

func getConfigs() cmd.Config {
	feeRate, err := strconv.ParseFloat(goDotEnvVariable("FEE_RATE"), 64)
	if err != nil {
		log.Fatalf("Invalid FEE_RATE: %v", err)
	}

	config := cmd.Config{
		HTTPPort:   goDotEnvVariable("HTTP_PORT"),
		DBHost:     goDotEnvVariable("DB_HOST"),
		DBPort:     goDotEnvVariable("DB_PORT"),
		DBUser:     goDotEnvVariable("DB_USER"),
		DBPassword: goDotEnvVariable("DB_PASSWORD"),
		DBName:     goDotEnvVariable("DB_NAME"),
		DBSslMode:  goDotEnvVariable("DB_SSLMODE"),
		JWTSecret:  goDotEnvVariable("JWT_SECRET"),
		FeeRate:    feeRate,
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func openDatabase(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	db, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	err = db.AutoMigrate(
		&orderrepo.OrderDTO{}, &orderrepo.OrderItemDTO{}, &orderrepo.TransitionDTO{},
		&agentrepo.AgentDTO{}, &paymentrepo.PaymentDTO{}, &menurepo.MenuItemDTO{},
	)
	if err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	return db
}

func startWebServer(app cmd.CompositionRoot, configs cmd.Config) {
	e := echo.New()

	server := httpadapter.NewServer(
		app.CreatePlaceOrderCommandHandler(),
		app.CreateTransitionOrderCommandHandler(),
		app.CreateRegisterAgentCommandHandler(),
		app.CreateChangeAgentAvailabilityCommandHandler(),
		app.CreateGetOrdersForActorQueryHandler(),
		app.CreateGetOrderHistoryQueryHandler(),
		app.CreateGetAvailableAgentsQueryHandler(),
	)
	server.RegisterRoutes(e, []byte(configs.JWTSecret))

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)))
}
