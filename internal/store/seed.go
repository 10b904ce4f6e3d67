package store

import "github.com/junaydArshad/Green-Campus/internal/model"

// seedSpecies 在树种表为空时写入固定的五个树种。
//
// 这是参考数据（fixture），不是业务逻辑；目录通过 API 只读。
func (s *Store) seedSpecies() error {
	var count int64
	if err := s.db.Model(&model.TreeSpecies{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	species := []model.TreeSpecies{
		{
			Name:             "Oak Tree",
			ScientificName:   "Quercus",
			Description:      "Strong, long-living tree perfect for urban environments",
			CareInstructions: "Water weekly, prune in winter",
			GrowthRate:       "slow",
			MatureHeightFeet: 80,
		},
		{
			Name:             "Maple Tree",
			ScientificName:   "Acer",
			Description:      "Beautiful foliage tree with seasonal color changes",
			CareInstructions: "Regular watering, avoid overwatering",
			GrowthRate:       "medium",
			MatureHeightFeet: 60,
		},
		{
			Name:             "Pine Tree",
			ScientificName:   "Pinus",
			Description:      "Evergreen tree that provides year-round greenery",
			CareInstructions: "Drought tolerant once established",
			GrowthRate:       "medium",
			MatureHeightFeet: 70,
		},
		{
			Name:             "Willow Tree",
			ScientificName:   "Salix",
			Description:      "Fast-growing tree that loves water and wet soil",
			CareInstructions: "Keep soil moist, regular watering",
			GrowthRate:       "fast",
			MatureHeightFeet: 40,
		},
		{
			Name:             "Cherry Tree",
			ScientificName:   "Prunus",
			Description:      "Flowering tree that produces beautiful spring blossoms",
			CareInstructions: "Well-draining soil, moderate watering",
			GrowthRate:       "medium",
			MatureHeightFeet: 30,
		},
	}
	return s.db.Create(&species).Error
}

// Species 返回全部树种，按名称排序。
func (s *Store) Species() ([]model.TreeSpecies, error) {
	var out []model.TreeSpecies
	if err := s.db.Order("name").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// SpeciesByID 按 ID 查询树种。
func (s *Store) SpeciesByID(id uint) (*model.TreeSpecies, error) {
	var sp model.TreeSpecies
	if err := s.db.First(&sp, id).Error; err != nil {
		return nil, translate(err)
	}
	return &sp, nil
}
