package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	"storefront/internal/config"
	"storefront/internal/pkg/logger"
	"storefront/migrations"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "warning: .env not loaded, using environment only")
	}
	log := logger.New("migrate", "info")

	// JWT_SECRET等は不要なのでDB設定だけ読む
	cfg, err := config.LoadDB()
	if err != nil {
		log.Error("config load failed", err, nil)
		os.Exit(1)
	}

	flag.Parse()
	arguments := flag.Args()
	if len(arguments) == 0 {
		arguments = []string{"up"}
	}
	command, args := arguments[0], arguments[1:]

	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		log.Error("db open failed", err, nil)
		os.Exit(1)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Error("goose dialect failed", err, nil)
		os.Exit(1)
	}

	if err := goose.Run(command, db, ".", args...); err != nil {
		log.Error("goose "+command+" failed", err, nil)
		os.Exit(1)
	}
	log.Info("goose "+command+" success", nil)
}
