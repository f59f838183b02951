package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	DB *gorm.DB

	// ReadDB is an optional replica handle. Reads served from it are allowed
	// to lag the primary; callers must not assume read-after-write there.
	ReadDB *gorm.DB
)

func ConnectDB() {
	log.Println("[INFO] Koneksi ke PostgreSQL...")

	sslmode := getenv("DB_SSLMODE", "require")
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=schoolku&options=-c statement_timeout=3000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		sslmode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // cocok untuk PgBouncer (transaction pooling)
	}), &gorm.Config{
		TranslateError: true, // unique/fk violations -> gorm.ErrDuplicatedKey etc.
	})
	if err != nil {
		log.Fatalf("[ERROR] Gagal konek DB: %v", err)
	}
	DB = db
	log.Println("[INFO] DB connected.")

	if replicaDSN := os.Getenv("DB_REPLICA_DSN"); replicaDSN != "" {
		rdb, err := gorm.Open(postgres.New(postgres.Config{
			DSN:                  replicaDSN,
			PreferSimpleProtocol: true,
		}), &gorm.Config{TranslateError: true})
		if err != nil {
			log.Printf("[WARNING] Replica tidak terjangkau, semua read ke primary: %v", err)
		} else {
			ReadDB = rdb
			log.Println("[INFO] Read replica connected.")
		}
	}
}

// Read returns the replica when configured, else the primary. List/get paths
// go through here; writes always use DB.
func Read() *gorm.DB {
	if ReadDB != nil {
		return ReadDB
	}
	return DB
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUp() {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := Ping(); err != nil {
			log.Printf("warm-up ping err: %v", err)
		}
	}()
}

func Ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
