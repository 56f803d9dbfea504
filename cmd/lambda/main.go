package main

import (
	"log"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"terminal-terrace/otp-function/config"
	"terminal-terrace/otp-function/internal/logger"
	"terminal-terrace/otp-function/internal/otp"
)

func main() {
	conf := config.MustLoad(os.Getenv("CONFIG_PATH"))

	zapLogger, err := logger.NewZapLogger(conf.Log)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("otp function starting",
		zap.String("sender", conf.Smtp.Sender()),
		zap.Bool("password_set", conf.Smtp.Password != ""),
	)

	svc := otp.NewServiceFromConfig(conf, zapLogger)
	lambda.Start(otp.NewLambdaHandler(svc, zapLogger).Handle)
}
