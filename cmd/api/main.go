package main

import (
	"context"
	"os"
	"strings"

	"NewsPortal/internal/model"
	"NewsPortal/internal/pkg"
	"NewsPortal/internal/repository/mysql"
	"NewsPortal/internal/repository/redis"
	"NewsPortal/internal/router"
	"NewsPortal/internal/service"
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	dsn := envOr("MYSQL_DSN", "user:password@tcp(127.0.0.1:3306)/newsportal?charset=utf8mb4&parseTime=True")
	if err := mysql.InitDB(dsn); err != nil {
		panic(err)
	}

	// 连接redis
	if err := redis.Init(envOr("REDIS_ADDR", "127.0.0.1:6379"), os.Getenv("REDIS_PASSWORD"), 0); err != nil {
		panic(err)
	}

	// 自动建表（开发阶段 OK）
	mysql.DB.AutoMigrate(
		&model.User{},
		&model.Author{},
		&model.Category{},
		&model.Subscription{},
		&model.Post{},
		&model.ActivationToken{},
		&model.NotificationOutbox{},
		&model.DigestWatermark{},
	)

	smtpCfg := pkg.SMTPConfig{
		Host:     envOr("SMTP_HOST", "smtp.qq.com"),
		Port:     465,
		Username: envOr("SMTP_USER", "newsportal@example.com"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     envOr("SMTP_FROM", "NewsPortal <newsportal@example.com>"),
	}
	emailSvc := service.NewEmailService(smtpCfg, envOr("SITE_URL", "http://127.0.0.1:8080"))

	ctx := context.Background()

	// 发布事件 relayer：配了 kafka 就投 kafka，否则只打日志
	eventSender := service.EventSender(service.LogSender)
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		producer, err := pkg.NewKafkaProducer(pkg.KafkaConfig{
			Brokers: strings.Split(brokers, ","),
			Topic:   envOr("KAFKA_TOPIC", pkg.TopicNewsPublished),
		})
		if err != nil {
			panic(err)
		}
		defer producer.Close()
		eventSender = service.KafkaSender(producer)
	}
	go service.NewOutboxRelayer(eventSender).Run(ctx)

	// 每周摘要调度器
	go service.NewDigestScheduler(emailSvc).Run(ctx)

	// Gin
	r := router.InitRouter(emailSvc)
	err := r.Run(":8080")
	if err != nil {
		return
	}
}
