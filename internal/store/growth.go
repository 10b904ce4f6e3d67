package store

import (
	"github.com/junaydArshad/Green-Campus/internal/model"
)

// AddMeasurement 追加一条测量记录并把树的当前身高同步为该值。
//
// 两条语句之间允许极窄的非原子窗口（两个操作都可幂等重试）。
func (s *Store) AddMeasurement(m *model.TreeMeasurement) error {
	if err := s.db.Create(m).Error; err != nil {
		return err
	}
	return s.db.Model(&model.Tree{}).Where("id = ?", m.TreeID).
		Update("current_height_cm", m.HeightCm).Error
}

// MeasurementsByTree 返回某棵树的测量记录，按测量日期降序。
func (s *Store) MeasurementsByTree(treeID uint) ([]model.TreeMeasurement, error) {
	out := []model.TreeMeasurement{}
	if err := s.db.Where("tree_id = ?", treeID).
		Order("measurement_date DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// AddPhoto 记录一张照片的元数据。
func (s *Store) AddPhoto(p *model.TreePhoto) error {
	return s.db.Create(p).Error
}

// PhotoByID 按 ID 查询照片元数据。
func (s *Store) PhotoByID(id uint) (*model.TreePhoto, error) {
	var photo model.TreePhoto
	if err := s.db.First(&photo, id).Error; err != nil {
		return nil, translate(err)
	}
	return &photo, nil
}

// PhotosByTree 返回某棵树的照片，按拍摄时间降序。
func (s *Store) PhotosByTree(treeID uint) ([]model.TreePhoto, error) {
	out := []model.TreePhoto{}
	if err := s.db.Where("tree_id = ?", treeID).
		Order("taken_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// DeletePhoto 删除照片元数据行。幂等。
func (s *Store) DeletePhoto(id uint) error {
	return s.db.Delete(&model.TreePhoto{}, id).Error
}
