package resource

import (
	"fmt"
	"sync"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"clipflow-service/ddd/infrastructure/database/po"
	"clipflow-service/pkg/assert"
	"clipflow-service/pkg/config"
	"clipflow-service/pkg/logger"
	"clipflow-service/pkg/manager"
)

var (
	mysqlResourceOnce      sync.Once
	singletonMysqlResource *MysqlResource
)

// MysqlResource MySQL资源管理器
type MysqlResource struct {
	mainDB *gorm.DB
}

// DefaultMysqlResource 获取MySQL资源单例
func DefaultMysqlResource() *MysqlResource {
	assert.NotCircular()
	mysqlResourceOnce.Do(func() {
		singletonMysqlResource = &MysqlResource{}
	})
	assert.NotNil(singletonMysqlResource)
	return singletonMysqlResource
}

// MustOpen 初始化数据库连接并迁移表结构
func (r *MysqlResource) MustOpen() {
	cfg := config.GetGlobalConfig()
	if cfg == nil {
		panic("global config not initialized before MysqlResource")
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.GetDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		panic(fmt.Sprintf("failed to connect database: %v", err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		panic(fmt.Sprintf("failed to get sql db: %v", err))
	}
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := db.AutoMigrate(
		&po.Video{},
		&po.VideoError{},
		&po.OriginalVideo{},
		&po.StorageArtifact{},
		&po.Transcription{},
		&po.Translation{},
		&po.Channel{},
	); err != nil {
		panic(fmt.Sprintf("failed to migrate database: %v", err))
	}

	r.mainDB = db

	logger.Info("MySQL resource initialized", map[string]interface{}{
		"host":     cfg.Database.Host,
		"database": cfg.Database.Database,
	})
}

// MainDB 获取主库连接
func (r *MysqlResource) MainDB() *gorm.DB {
	return r.mainDB
}

// Close 释放数据库连接
func (r *MysqlResource) Close() {
	if r.mainDB == nil {
		return
	}
	if sqlDB, err := r.mainDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// MySqlResourcePlugin MySQL资源插件
type MySqlResourcePlugin struct{}

func (p *MySqlResourcePlugin) Name() string {
	return "mysqlResource"
}

func (p *MySqlResourcePlugin) MustCreateResource() manager.Resource {
	return DefaultMysqlResource()
}
