package model

import "time"

// User 表示系统用户。
//
// PasswordHash 只保存 bcrypt 哈希，永远不会序列化到客户端。
// VerificationToken 复用于密码重置流程（存放一次性重置令牌）。
type User struct {
	ID                uint      `gorm:"primaryKey" json:"id"`                                // 用户 ID
	Email             string    `gorm:"type:varchar(191);uniqueIndex;not null" json:"email"` // 邮箱（唯一）
	PasswordHash      string    `gorm:"not null" json:"-"`                                   // bcrypt 哈希
	FullName          string    `gorm:"type:varchar(255);not null" json:"full_name"`
	Location          string    `gorm:"type:varchar(255)" json:"location"` // 所在地（可选）
	EmailVerified     bool      `gorm:"default:false" json:"email_verified"`
	VerificationToken string    `gorm:"type:varchar(255);index" json:"-"` // 密码重置令牌
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	Trees []Tree `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
