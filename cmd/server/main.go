package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"terminal-terrace/otp-function/config"
	"terminal-terrace/otp-function/internal/logger"
	"terminal-terrace/otp-function/internal/otp"
	"terminal-terrace/otp-function/internal/route"
)

// @title OTP Function API
// @version 1.0
// @description 发送邮箱验证码
// @BasePath /api/v1
func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	conf := config.MustLoad(*configPath)

	zapLogger, err := logger.NewZapLogger(conf.Log)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zapLogger.Sync()

	gin.SetMode(conf.Server.Mode)

	svc := otp.NewServiceFromConfig(conf, zapLogger)
	r := route.SetupRouter(otp.NewLambdaHandler(svc, zapLogger), zapLogger)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", conf.Server.Host, conf.Server.Port),
		Handler:      r,
		ReadTimeout:  conf.Server.ReadTimeout,
		WriteTimeout: conf.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("http server listening",
			zap.String("addr", server.Addr),
			zap.String("sender", conf.Smtp.Sender()),
			zap.Bool("password_set", conf.Smtp.Password != ""),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("server failed", zap.Error(err))
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("server shutdown", zap.Error(err))
	}
}
