package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/junaydArshad/Green-Campus/internal/model"
)

// AddActivity 追加一条养护活动记录。
func (s *Store) AddActivity(a *model.CareActivity) error {
	return s.db.Create(a).Error
}

// ActivitiesByTree 返回某棵树的养护记录，按活动日期降序。
func (s *Store) ActivitiesByTree(treeID uint) ([]model.CareActivity, error) {
	out := []model.CareActivity{}
	if err := s.db.Where("tree_id = ?", treeID).
		Order("activity_date DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// WateringCandidate 浇水巡检需要的最小视图：
// 树、树种名、所有者联系方式、最近一次浇水日期（从未浇水为 nil）。
type WateringCandidate struct {
	TreeID        uint
	SpeciesName   string
	OwnerEmail    string
	OwnerFullName string
	LastWatered   *time.Time
}

// sqlite 驱动存储 time.Time 时用到的时间戳文本格式（按常见度排列）。
var sqliteTimeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseSQLiteTime 解析 sqlite 返回的时间戳文本。
//
// MAX() 这类聚合列没有声明类型，驱动按 TEXT 返回，
// 不能直接 Scan 进 time.Time，得在这里解析回来。
func parseSQLiteTime(v string) (time.Time, error) {
	v = strings.TrimSuffix(v, "Z")
	for _, layout := range sqliteTimeLayouts {
		if ts, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized sqlite timestamp %q", v)
}

// WateringCandidates 返回全量树的浇水巡检视图（跨所有用户）。
func (s *Store) WateringCandidates() ([]WateringCandidate, error) {
	rows := []struct {
		TreeID        uint
		SpeciesName   string
		OwnerEmail    string
		OwnerFullName string
		LastWatered   sql.NullString
	}{}
	err := s.db.Table("trees").
		Select(`trees.id AS tree_id,
			tree_species.name AS species_name,
			users.email AS owner_email,
			users.full_name AS owner_full_name,
			(SELECT MAX(activity_date) FROM care_activities
			 WHERE care_activities.tree_id = trees.id
			   AND care_activities.activity_type = ?) AS last_watered`,
			model.ActivityWatering).
		Joins("JOIN users ON trees.user_id = users.id").
		Joins("JOIN tree_species ON trees.species_id = tree_species.id").
		Order("trees.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]WateringCandidate, 0, len(rows))
	for _, r := range rows {
		c := WateringCandidate{
			TreeID:        r.TreeID,
			SpeciesName:   r.SpeciesName,
			OwnerEmail:    r.OwnerEmail,
			OwnerFullName: r.OwnerFullName,
		}
		if r.LastWatered.Valid && r.LastWatered.String != "" {
			ts, err := parseSQLiteTime(r.LastWatered.String)
			if err != nil {
				return nil, err
			}
			c.LastWatered = &ts
		}
		out = append(out, c)
	}
	return out, nil
}
