package store

import (
	"errors"

	"github.com/junaydArshad/Green-Campus/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// 持久层的哨兵错误，由 API 层翻译为 HTTP 状态码。
var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// Store 封装所有数据库读写，是系统中唯一接触存储的组件。
type Store struct {
	db *gorm.DB
}

// Open 打开（或创建）SQLite 数据库并执行自动迁移与树种播种。
//
// 连接串追加 _fk=1 以启用 SQLite 外键约束，级联删除依赖它。
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path+"?_fk=1"), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent), // 关闭GORM调试日志
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	return New(db)
}

// New 基于已有连接构建 Store（测试用内存库走这里）。
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(
		&model.User{},
		&model.TreeSpecies{},
		&model.Tree{},
		&model.TreePhoto{},
		&model.TreeMeasurement{},
		&model.CareActivity{},
	); err != nil {
		return nil, err
	}
	s := &Store{db: db}
	if err := s.seedSpecies(); err != nil {
		return nil, err
	}
	return s, nil
}

// Ping 检查数据库连通性，用于健康检查。
func (s *Store) Ping() error {
	var one int
	return s.db.Raw("SELECT 1").Scan(&one).Error
}

// Close 关闭底层数据库连接。
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
