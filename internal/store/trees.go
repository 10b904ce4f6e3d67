package store

import (
	"github.com/junaydArshad/Green-Campus/internal/model"
)

// TreeWithSpecies 是携带树种名称的树（列表/地图视图用）。
type TreeWithSpecies struct {
	model.Tree
	SpeciesName    string `json:"species_name"`
	ScientificName string `json:"scientific_name"`
}

// TreeWithOwner 是管理员视图：树 + 树种 + 所有者信息。
type TreeWithOwner struct {
	model.Tree
	SpeciesName    string `json:"species_name"`
	ScientificName string `json:"scientific_name"`
	UserFullName   string `json:"user_full_name"`
	UserEmail      string `json:"user_email"`
}

// CreateTree 插入一棵树并返回完整记录（含生成的 ID 与时间戳）。
func (s *Store) CreateTree(tree *model.Tree) error {
	return s.db.Create(tree).Error
}

// TreeByID 按 ID 查询树。
func (s *Store) TreeByID(id uint) (*model.Tree, error) {
	var tree model.Tree
	if err := s.db.First(&tree, id).Error; err != nil {
		return nil, translate(err)
	}
	return &tree, nil
}

// TreesByUser 返回某用户的全部树，关联树种名称，按种植日期降序。
func (s *Store) TreesByUser(userID uint) ([]TreeWithSpecies, error) {
	trees := []TreeWithSpecies{}
	err := s.db.Table("trees").
		Select("trees.*, tree_species.name AS species_name, tree_species.scientific_name").
		Joins("JOIN tree_species ON trees.species_id = tree_species.id").
		Where("trees.user_id = ?", userID).
		Order("trees.planted_date DESC").
		Scan(&trees).Error
	if err != nil {
		return nil, err
	}
	return trees, nil
}

// AllTreesWithOwner 返回全部树（管理员视图），按种植日期降序。
func (s *Store) AllTreesWithOwner() ([]TreeWithOwner, error) {
	trees := []TreeWithOwner{}
	err := s.db.Table("trees").
		Select("trees.*, tree_species.name AS species_name, tree_species.scientific_name, users.full_name AS user_full_name, users.email AS user_email").
		Joins("JOIN users ON trees.user_id = users.id").
		Joins("JOIN tree_species ON trees.species_id = tree_species.id").
		Order("trees.planted_date DESC").
		Scan(&trees).Error
	if err != nil {
		return nil, err
	}
	return trees, nil
}

// UpdateTree 对树应用部分字段更新并刷新 updated_at，返回更新后的记录。
func (s *Store) UpdateTree(id uint, updates map[string]interface{}) (*model.Tree, error) {
	if _, err := s.TreeByID(id); err != nil {
		return nil, err
	}
	if len(updates) > 0 {
		if err := s.db.Model(&model.Tree{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.TreeByID(id)
}

// DeleteTree 删除树，依赖行（照片/测量/养护）由外键级联清理。幂等。
func (s *Store) DeleteTree(id uint) error {
	return s.db.Delete(&model.Tree{}, id).Error
}
