package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/theukno/ecomproject/internal/auth"
	"github.com/theukno/ecomproject/internal/config"
	"github.com/theukno/ecomproject/internal/db"
	"github.com/theukno/ecomproject/internal/email"
	"github.com/theukno/ecomproject/internal/routes"
	"github.com/theukno/ecomproject/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	database, err := db.Open(cfg.DbDsn)
	if err != nil {
		log.Fatalf("db error: %v", err)
	}

	var sender email.Sender
	if cfg.SmtpConfigured() {
		sender = &email.SMTPSender{
			Host:     cfg.SmtpHost,
			Port:     cfg.SmtpPort,
			Username: cfg.SmtpUser,
			Password: cfg.SmtpPass,
			From:     cfg.SmtpFrom,
		}
	} else {
		log.Println("smtp not configured, logging outbound email instead")
		sender = email.LogSender{}
	}

	svc := auth.NewService(
		store.NewGormUserStore(database),
		store.NewGormOTPStore(database),
		sender,
		cfg.JwtSecret,
		time.Duration(cfg.SessionDays)*24*time.Hour,
		time.Duration(cfg.OtpMinutes)*time.Minute,
	)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	routes.Register(router, svc, cfg)

	if err := router.Run(cfg.Addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
