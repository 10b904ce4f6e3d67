package store

import (
	"errors"
	"strings"

	"github.com/junaydArshad/Green-Campus/internal/model"

	"gorm.io/gorm"
)

// CreateUser 创建用户。邮箱已存在时返回 ErrDuplicateEmail。
//
// 唯一性交给 email 的 UNIQUE 索引裁决，并发注册同一邮箱时
// 也只会有一个成功，另一个拿到 ErrDuplicateEmail。
func (s *Store) CreateUser(user *model.User) error {
	err := s.db.Create(user).Error
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint") {
		return ErrDuplicateEmail
	}
	return err
}

// UserByEmail 按邮箱查询用户。
func (s *Store) UserByEmail(email string) (*model.User, error) {
	var user model.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// UserByID 按 ID 查询用户。
func (s *Store) UserByID(id uint) (*model.User, error) {
	var user model.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// UpdateUser 对用户应用部分字段更新并刷新 updated_at，返回更新后的记录。
func (s *Store) UpdateUser(id uint, updates map[string]interface{}) (*model.User, error) {
	if _, err := s.UserByID(id); err != nil {
		return nil, err
	}
	if len(updates) > 0 {
		if err := s.db.Model(&model.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.UserByID(id)
}

// UpdateUserPassword 写入新的密码哈希。
func (s *Store) UpdateUserPassword(id uint, passwordHash string) error {
	return s.db.Model(&model.User{}).Where("id = ?", id).
		Update("password_hash", passwordHash).Error
}

// DeleteUser 删除用户，其名下的树及照片/测量/养护记录由外键级联清理。
// 幂等：用户不存在时不报错。
func (s *Store) DeleteUser(id uint) error {
	return s.db.Delete(&model.User{}, id).Error
}

// LeaderboardEntry 排行榜条目（只包含已种树的用户）。
type LeaderboardEntry struct {
	ID        uint   `json:"id"`
	FullName  string `json:"full_name"`
	Location  string `json:"location"`
	TreeCount int    `json:"tree_count"`
	Rank      int    `json:"rank" gorm:"-"`
}

// Leaderboard 按种树数量降序返回排行榜，名次按位置赋值。
func (s *Store) Leaderboard() ([]LeaderboardEntry, error) {
	entries := []LeaderboardEntry{}
	err := s.db.Table("users").
		Select("users.id, users.full_name, users.location, COUNT(trees.id) AS tree_count").
		Joins("JOIN trees ON trees.user_id = users.id").
		Group("users.id").
		Order("tree_count DESC, users.id ASC").
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}
