// Package mysql establishes the MySQL connection, migrates the schema
// and hands out the repository layer.
package mysql

import (
	"fmt"

	"openbook_server/internal/config"
	"openbook_server/internal/dao/mysql/repository"
	"openbook_server/internal/model"

	"go.uber.org/zap"
	mysqldriver "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Init opens the database, runs AutoMigrate and returns the
// repositories. TranslateError is on so unique-index violations surface
// as gorm.ErrDuplicatedKey, which the friendship service relies on to
// resolve reciprocal-request races.
func Init() *repository.Repositories {
	conf := config.GetConfig()

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		conf.MysqlConfig.User,
		conf.MysqlConfig.Password,
		conf.MysqlConfig.Host,
		conf.MysqlConfig.Port,
		conf.MysqlConfig.DatabaseName,
	)

	db, err := gorm.Open(mysqldriver.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		zap.L().Fatal(err.Error())
	}

	err = db.AutoMigrate(
		&model.UserInfo{},
		&model.Friendship{},
		&model.Notification{},
		&model.Message{},
		&model.Post{},
		&model.PostFile{},
		&model.PostLike{},
		&model.PostComment{},
	)
	if err != nil {
		zap.L().Fatal(err.Error())
	}

	return repository.NewRepositories(db)
}
