package config

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB holds the database connections the configured drivers need. Either may be nil.
type DB struct {
	Postgres *gorm.DB
	Mongo    *mongo.Client

	log logrus.FieldLogger
}

// InitDB opens PostgreSQL when STORAGE_DRIVER=postgres and MongoDB when SESSION_DRIVER=mongo
func InitDB(cfg *Config, log logrus.FieldLogger) (*DB, error) {
	db := &DB{log: log}

	switch cfg.StorageDriver {
	case DriverMemory:
	case DriverPostgres:
		if cfg.PostgresConnStr == "" {
			return nil, errors.New("POSTGRES_CONN_STR environment variable not set")
		}
		pg, err := initPostgres(cfg.PostgresConnStr, cfg.IsDevelopment())
		if err != nil {
			return nil, errors.Wrap(err, "failed to connect to PostgreSQL")
		}
		db.Postgres = pg
		log.Info("Successfully connected to PostgreSQL")
	default:
		return nil, errors.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	switch cfg.SessionDriver {
	case DriverMemory:
	case DriverMongo:
		if cfg.MongoURI == "" {
			db.CloseDB()
			return nil, errors.New("MONGO_URI environment variable not set")
		}
		client, err := initMongo(cfg.MongoURI)
		if err != nil {
			db.CloseDB()
			return nil, errors.Wrap(err, "failed to connect to MongoDB")
		}
		db.Mongo = client
		log.Info("Successfully connected to MongoDB")
	default:
		db.CloseDB()
		return nil, errors.Errorf("unknown SESSION_DRIVER %q", cfg.SessionDriver)
	}

	return db, nil
}

const (
	connectTimeout    = 10 * time.Second
	disconnectTimeout = 5 * time.Second
)

// initPostgres opens a pooled gorm connection and pings it. verbose logs every SQL statement.
func initPostgres(connStr string, verbose bool) (*gorm.DB, error) {
	level := gormlogger.Warn
	if verbose {
		level = gormlogger.Info
	}
	db, err := gorm.Open(postgres.Open(connStr), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// initMongo connects to MongoDB and pings the primary
func initMongo(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetAppName("class-forum"))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// CloseDB closes whichever connections InitDB opened
func (db *DB) CloseDB() {
	if db.Postgres != nil {
		if err := closePostgres(db.Postgres); err != nil {
			db.log.WithError(err).Error("Error closing PostgreSQL connection")
		} else {
			db.log.Info("PostgreSQL connection closed")
		}
		db.Postgres = nil
	}

	if db.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
		defer cancel()
		if err := db.Mongo.Disconnect(ctx); err != nil {
			db.log.WithError(err).Error("Error closing MongoDB connection")
		} else {
			db.log.Info("MongoDB connection closed")
		}
		db.Mongo = nil
	}
}

func closePostgres(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return errors.Wrap(err, "get sql.DB from gorm")
	}
	return sqlDB.Close()
}
