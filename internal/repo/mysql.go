package repo

import (
	"NetVault/config"
	"NetVault/model"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	mysqlDriver "github.com/go-sql-driver/mysql"
	gormMysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var Db *gorm.DB

// autoMigrateAll migrates all database models.
func autoMigrateAll(db *gorm.DB) {
	db.AutoMigrate(&model.User{})
	db.AutoMigrate(&model.Folder{})
	db.AutoMigrate(&model.File{})
	db.AutoMigrate(&model.SharedFolder{})
	db.AutoMigrate(&model.ImportTask{})
	ensureFolderSiblingIndex(db)
}

// ensureFolderSiblingIndex builds the sibling-uniqueness index on folder.
// MySQL unique indexes do not constrain rows where an indexed column is
// NULL, so the nullable parent_id cannot carry the constraint for root
// folders. parent_key is a stored generated COALESCE(parent_id, 0) that
// makes the index bite at every level, root included.
func ensureFolderSiblingIndex(db *gorm.DB) {
	var columns int64
	db.Raw(
		"SELECT COUNT(*) FROM information_schema.columns WHERE table_schema = DATABASE() AND table_name = 'folder' AND column_name = 'parent_key'",
	).Scan(&columns)
	if columns == 0 {
		if err := db.Exec(
			"ALTER TABLE folder ADD COLUMN parent_key BIGINT UNSIGNED AS (COALESCE(parent_id, 0)) STORED",
		).Error; err != nil {
			log.Fatal("add folder parent_key column fail", err)
		}
	}

	// An index by this name from an earlier schema may still sit on the
	// nullable parent_id; only one spanning parent_key counts.
	var onParentKey int64
	db.Raw(
		"SELECT COUNT(*) FROM information_schema.statistics WHERE table_schema = DATABASE() AND table_name = 'folder' AND index_name = 'uk_owner_parent_name' AND column_name = 'parent_key'",
	).Scan(&onParentKey)
	if onParentKey > 0 {
		return
	}

	var stale int64
	db.Raw(
		"SELECT COUNT(*) FROM information_schema.statistics WHERE table_schema = DATABASE() AND table_name = 'folder' AND index_name = 'uk_owner_parent_name'",
	).Scan(&stale)
	if stale > 0 {
		if err := db.Exec("ALTER TABLE folder DROP INDEX uk_owner_parent_name").Error; err != nil {
			log.Fatal("drop stale folder sibling index fail", err)
		}
	}
	if err := db.Exec(
		"ALTER TABLE folder ADD UNIQUE INDEX uk_owner_parent_name (owner_id, parent_key, name)",
	).Error; err != nil {
		log.Fatal("add folder sibling index fail", err)
	}
}

// InitMysql initializes the main MySQL connection.
func InitMysql() {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		config.AppConfig.DBUser,
		config.AppConfig.DBPass,
		config.AppConfig.DBHost,
		config.AppConfig.DBPort,
		config.AppConfig.DBName,
	)
	db, err := gorm.Open(gormMysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("init mysql fail", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("get sql db fail", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	autoMigrateAll(db)
	log.Println("init mysql success")
	Db = db
}

// InitMysqlTest initializes the test MySQL connection, creating the test
// database when it does not exist yet.
func InitMysqlTest() {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		config.AppConfig.DBUser,
		config.AppConfig.DBPass,
		config.AppConfig.DBHost,
		config.AppConfig.DBPort,
		config.AppConfig.DBNameTest,
	)
	db, err := gorm.Open(gormMysql.Open(dsn), &gorm.Config{})
	if err != nil && isUnknownDatabaseError(err) {
		if createErr := ensureMySQLDatabase(config.AppConfig.DBNameTest); createErr != nil {
			log.Fatal("create test mysql database fail", createErr)
		}
		db, err = gorm.Open(gormMysql.Open(dsn), &gorm.Config{})
	}
	if err != nil {
		log.Fatal("init mysql fail", err)
	}

	autoMigrateAll(db)

	log.Println("init mysql success")
	Db = db
}

// IsDuplicateKey reports whether err is a MySQL unique-constraint violation.
// Sibling-name and share-token uniqueness rely on this: the pre-check in the
// services is advisory, the index is what holds under concurrent writers.
func IsDuplicateKey(err error) bool {
	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func isUnknownDatabaseError(err error) bool {
	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1049
	}
	return strings.Contains(strings.ToLower(err.Error()), "unknown database")
}

func ensureMySQLDatabase(dbName string) error {
	dbName = strings.TrimSpace(dbName)
	if dbName == "" {
		return errors.New("empty database name")
	}

	serverDSN := fmt.Sprintf("%s:%s@tcp(%s:%s)/?charset=utf8mb4&parseTime=True&loc=Local",
		config.AppConfig.DBUser,
		config.AppConfig.DBPass,
		config.AppConfig.DBHost,
		config.AppConfig.DBPort,
	)

	serverDB, err := sql.Open("mysql", serverDSN)
	if err != nil {
		return err
	}
	defer serverDB.Close()

	if err = serverDB.Ping(); err != nil {
		return err
	}

	_, err = serverDB.Exec(
		"CREATE DATABASE IF NOT EXISTS " + quoteMySQLIdentifier(dbName) + " CHARACTER SET utf8mb4 COLLATE utf8mb4_general_ci",
	)
	return err
}

func quoteMySQLIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
