package service_test

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/creditos/creditos-backend/internal/domain"
	"github.com/creditos/creditos-backend/internal/notifier"
	"github.com/creditos/creditos-backend/pkg/common"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// stubChannel stands in for the Telegram channel so suites can assert on
// deliveries without a bot token. Failures are switchable per test.
type stubChannel struct {
	fail bool

	sentMessages []string
}

func (s *stubChannel) Medium() domain.NotificationMedium {
	return domain.MediumTelegram
}

func (s *stubChannel) Destination(client *domain.Client) string {
	return client.TelegramChatID
}

func (s *stubChannel) Send(_ context.Context, _, message string) notifier.SendResult {
	s.sentMessages = append(s.sentMessages, message)
	if s.fail {
		return notifier.SendResult{Success: false, Raw: "stubbed failure"}
	}
	return notifier.SendResult{Success: true, Raw: `{"ok":true}`}
}

func (s *stubChannel) reset() {
	s.fail = false
	s.sentMessages = nil
}

func openTestDatabase(dbName string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/?charset=utf8mb4&parseTime=True&loc=Local",
		common.GetEnv("MYSQL_USER", "root"),
		common.GetEnv("MYSQL_PASSWORD", "rootpassword123"),
		common.GetEnv("MYSQL_HOST", "localhost"),
		common.GetEnv("MYSQL_PORT", "3306"),
	)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(fmt.Sprintf("DROP DATABASE IF EXISTS %s", dbName)); err != nil {
		return nil, err
	}
	if _, err := db.Exec(fmt.Sprintf("CREATE DATABASE %s", dbName)); err != nil {
		return nil, err
	}
	db.Close()

	testDSN := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		common.GetEnv("MYSQL_USER", "root"),
		common.GetEnv("MYSQL_PASSWORD", "rootpassword123"),
		common.GetEnv("MYSQL_HOST", "localhost"),
		common.GetEnv("MYSQL_PORT", "3306"),
		dbName,
	)

	return gorm.Open(mysql.Open(testDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}
