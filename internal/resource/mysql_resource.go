package resource

import (
	"sync"

	"gorm.io/gorm"

	"videogen-service/pkg/assert"
	"videogen-service/pkg/config"
	"videogen-service/pkg/manager"
	"videogen-service/pkg/repository"
)

var (
	mysqlResourceOnce sync.Once
	mysqlSingleton    *MySqlResource
)

// MySqlResource MySQL资源管理器
type MySqlResource struct {
	db *repository.Database
}

// DefaultMysqlResource 获取MySQL资源单例
func DefaultMysqlResource() *MySqlResource {
	assert.NotCircular()
	mysqlResourceOnce.Do(func() {
		mysqlSingleton = &MySqlResource{}
	})
	assert.NotNil(mysqlSingleton)
	return mysqlSingleton
}

// MustOpen 初始化MySQL连接
func (r *MySqlResource) MustOpen() {
	if r.db != nil {
		return
	}

	cfg := config.GetGlobalConfig()
	if cfg == nil {
		panic("global config not initialized before MySqlResource")
	}

	db, err := repository.NewDatabase(&cfg.Database)
	if err != nil {
		panic("failed to connect mysql: " + err.Error())
	}
	r.db = db
}

// Close 释放资源
func (r *MySqlResource) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

// MainDB 获取主库连接
func (r *MySqlResource) MainDB() *gorm.DB {
	if r.db == nil {
		return nil
	}
	return r.db.Self
}

// MySqlResourcePlugin MySQL资源插件
type MySqlResourcePlugin struct{}

func (p *MySqlResourcePlugin) Name() string {
	return "mysqlResource"
}

func (p *MySqlResourcePlugin) MustCreateResource() manager.Resource {
	return DefaultMysqlResource()
}
