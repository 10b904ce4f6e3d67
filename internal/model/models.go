package model

import (
	"time"
)

// 树木健康状态。
const (
	HealthHealthy    = "healthy"
	HealthNeedsCare  = "needs_care"
	HealthStruggling = "struggling"
)

// ValidHealthStatus 判断健康状态是否合法。
func ValidHealthStatus(s string) bool {
	switch s {
	case HealthHealthy, HealthNeedsCare, HealthStruggling:
		return true
	}
	return false
}

// 照片类型。
const (
	PhotoInitial  = "initial"
	PhotoProgress = "progress"
	PhotoCare     = "care"
)

// ValidPhotoType 判断照片类型是否合法。
func ValidPhotoType(s string) bool {
	switch s {
	case PhotoInitial, PhotoProgress, PhotoCare:
		return true
	}
	return false
}

// 养护活动类型。
const (
	ActivityWatering    = "watering"
	ActivityFertilizing = "fertilizing"
	ActivityPruning     = "pruning"
	ActivityOther       = "other"
)

// ValidActivityType 判断养护活动类型是否合法。
func ValidActivityType(s string) bool {
	switch s {
	case ActivityWatering, ActivityFertilizing, ActivityPruning, ActivityOther:
		return true
	}
	return false
}

// TreeSpecies 表示树种目录（只读参考数据，首次启动时播种）。
type TreeSpecies struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Name             string    `gorm:"type:varchar(255);not null" json:"name"`
	ScientificName   string    `gorm:"type:varchar(255)" json:"scientific_name"`
	Description      string    `gorm:"type:text" json:"description"`
	CareInstructions string    `gorm:"type:text" json:"care_instructions"`
	GrowthRate       string    `gorm:"type:varchar(50)" json:"growth_rate"` // fast / medium / slow
	MatureHeightFeet int       `json:"mature_height_feet"`
	ImageURL         string    `gorm:"type:varchar(500)" json:"image_url"`
	CreatedAt        time.Time `json:"created_at"`
}

// TableName 固定表名（gorm 对 "species" 的复数推断不可靠）。
func (TreeSpecies) TableName() string { return "tree_species" }

// Tree 表示一棵由用户种植的树。
//
// CurrentHeightCm 随每次新测量同步更新（last write wins）。
type Tree struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID    uint        `gorm:"not null;index" json:"user_id"` // 所属用户 ID
	User      User        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	SpeciesID uint        `gorm:"not null;index" json:"species_id"` // 树种 ID
	Species   TreeSpecies `gorm:"foreignKey:SpeciesID" json:"-"`

	Latitude        float64   `gorm:"not null" json:"latitude"`  // 纬度（十进制度）
	Longitude       float64   `gorm:"not null" json:"longitude"` // 经度（十进制度）
	PlantedDate     time.Time `gorm:"not null;index" json:"planted_date"`
	CurrentHeightCm float64   `gorm:"default:0" json:"current_height_cm"`
	HealthStatus    string    `gorm:"type:varchar(50);default:healthy" json:"health_status"` // healthy / needs_care / struggling
	Notes           string    `gorm:"type:text" json:"notes"`

	Photos       []TreePhoto       `gorm:"foreignKey:TreeID;constraint:OnDelete:CASCADE" json:"-"`
	Measurements []TreeMeasurement `gorm:"foreignKey:TreeID;constraint:OnDelete:CASCADE" json:"-"`
	Activities   []CareActivity    `gorm:"foreignKey:TreeID;constraint:OnDelete:CASCADE" json:"-"`
}

// TreePhoto 表示树木的一张照片记录（文件本体存放在 blob 目录）。
type TreePhoto struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TreeID    uint      `gorm:"not null;index" json:"tree_id"`
	PhotoURL  string    `gorm:"type:varchar(500);not null" json:"photo_url"`
	Caption   string    `gorm:"type:text" json:"caption"`
	PhotoType string    `gorm:"type:varchar(50);default:progress" json:"photo_type"` // initial / progress / care
	TakenAt   time.Time `gorm:"autoCreateTime" json:"taken_at"`
}

// TreeMeasurement 表示一次身高测量（只追加的历史记录）。
type TreeMeasurement struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	TreeID          uint      `gorm:"not null;index" json:"tree_id"`
	HeightCm        float64   `gorm:"not null" json:"height_cm"`
	MeasurementDate time.Time `gorm:"not null" json:"measurement_date"`
	Notes           string    `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
}

// CareActivity 表示一次养护活动（只追加的日志）。
type CareActivity struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	TreeID       uint      `gorm:"not null;index" json:"tree_id"`
	ActivityType string    `gorm:"type:varchar(50);not null" json:"activity_type"` // watering / fertilizing / pruning / other
	ActivityDate time.Time `gorm:"not null" json:"activity_date"`
	Notes        string    `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
}
