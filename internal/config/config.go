package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3002"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	Database struct {
		DSN                string `env:"DSN,required,notEmpty"`
		ConnectTimeout     int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout       int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		TransactionTimeout int    `env:"TRANSACTION_TIMEOUT" envDefault:"20"`
		MaxOpenConns       int    `env:"MAX_OPEN_CONNS" envDefault:"5"`
		MaxIdleConns       int    `env:"MAX_IDLE_CONNS" envDefault:"5"`
		MaxIdleTime        int    `env:"MAX_IDLE_TIME" envDefault:"10"`
	} `envPrefix:"DATABASE_"`
	JWT struct {
		Expiration int    `env:"EXPIRATION" envDefault:"28800"` // 8 heures
		Secret     string `env:"SECRET,required,notEmpty"`
	} `envPrefix:"JWT_"`
	Email struct {
		From        string `env:"FROM,required"`
		FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
		SMTP        struct {
			Username    string `env:"USERNAME"`
			Password    string `env:"PASSWORD"`
			Host        string `env:"HOST,required"`
			Port        int    `env:"PORT" envDefault:"587"`
			SSL         bool   `env:"SSL" envDefault:"false"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
	} `envPrefix:"EMAIL_"`
	RabbitMQ struct {
		DSN            string `env:"DSN,required,notEmpty"`
		Queue          string `env:"QUEUE" envDefault:"email_queue"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	Redis struct {
		Host             string `env:"HOST" envDefault:"localhost"`
		Port             int    `env:"PORT" envDefault:"6379"`
		Password         string `env:"PASSWORD"`
		OperationTimeout int    `env:"OPERATION_TIMEOUT" envDefault:"2"`
	} `envPrefix:"REDIS_"`
	Verification struct {
		Expiration int `env:"EXPIRATION" envDefault:"600"` // 10 minutes
	} `envPrefix:"VERIFICATION_CODE_"`
	Limiter struct {
		MaxAttempts int `env:"MAX_ATTEMPTS" envDefault:"5"`
		Window      int `env:"WINDOW" envDefault:"900"`
	} `envPrefix:"LIMITER_"`
	Scheduler struct {
		Enabled      bool   `env:"ENABLED" envDefault:"true"`
		PurgeSpec    string `env:"PURGE_SPEC" envDefault:"*/15 * * * *"`
		ReminderSpec string `env:"REMINDER_SPEC" envDefault:"0 8 * * *"`
	} `envPrefix:"SCHEDULER_"`
	SeedSampleData bool `env:"SEED_SAMPLE_DATA" envDefault:"true"`
}

func LoadConfig() (*Config, error) {
	// le fichier .env est facultatif, les variables déjà définies restent prioritaires
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// seule la première erreur est renvoyée pour garder des logs lisibles
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	return cfg, nil
}
