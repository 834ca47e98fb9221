package repository

import (
	"stackit_backend/internal/model"

	"gorm.io/gorm"
)

// usageCountSQL 引用该标签的未删除问题数
const usageCountSQL = `(SELECT COUNT(*) FROM question_tags qt JOIN questions q ON q.id = qt.question_id
	WHERE qt.tag_id = tags.id AND q.is_deleted = false) AS usage_count`

type TagRepository struct {
	DB *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{DB: db}
}

func (r *TagRepository) withUsage() *gorm.DB {
	return r.DB.Model(&model.Tag{}).Select("tags.*, " + usageCountSQL)
}

func (r *TagRepository) List(search, category string, includeInactive bool) ([]model.Tag, error) {
	var tags []model.Tag
	query := r.withUsage()
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	if search != "" {
		query = query.Where("name LIKE ? OR description LIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}
	err := query.Order("name ASC").Find(&tags).Error
	return tags, err
}

func (r *TagRepository) Popular(limit int) ([]model.Tag, error) {
	var tags []model.Tag
	err := r.withUsage().
		Where("is_active = ?", true).
		Order("usage_count DESC, name ASC").
		Limit(limit).
		Find(&tags).Error
	return tags, err
}

func (r *TagRepository) FindByID(id uint) (*model.Tag, error) {
	var tag model.Tag
	if err := r.withUsage().Where("tags.id = ?", id).First(&tag).Error; err != nil {
		return nil, notFound(err, "tag")
	}
	return &tag, nil
}

// FindActiveByNames 只返回存在且启用的标签，调用方比较数量判断是否有无效标签
func (r *TagRepository) FindActiveByNames(names []string) ([]model.Tag, error) {
	var tags []model.Tag
	if len(names) == 0 {
		return tags, nil
	}
	err := r.DB.Where("name IN ? AND is_active = ?", names, true).Find(&tags).Error
	return tags, err
}

func (r *TagRepository) Create(tag *model.Tag) error {
	if err := r.DB.Create(tag).Error; err != nil {
		if isUniqueViolation(err) {
			return model.Invalidf("tag %q already exists", tag.Name)
		}
		return err
	}
	return nil
}

func (r *TagRepository) Update(tag *model.Tag) error {
	err := r.DB.Model(tag).Select("name", "description", "category", "is_active").Updates(tag).Error
	if isUniqueViolation(err) {
		return model.Invalidf("tag %q already exists", tag.Name)
	}
	return err
}
