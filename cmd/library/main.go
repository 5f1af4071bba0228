package main

import (
	stdLog "log"
	"time"

	"github.com/joho/godotenv"
	"github.com/vagnerhf/library/library/app"
	"github.com/vagnerhf/library/library/config"
	"go.uber.org/zap/zapcore"
)

// @title Library API
// @version 1.0
// @description Authors, books, loans and users of a lending library.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load(); err != nil {
		stdLog.Println("no .env file, reading process environment: ", err)
	}
	cfg := config.NewConfig(
		config.WithLogLevel(zapcore.InfoLevel),
		config.WithWriteTimeout(time.Minute),
	)

	app.Run(cfg)
}
