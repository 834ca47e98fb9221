package model

type TagCategory string

const (
	CategoryWeb         TagCategory = "Web Development"
	CategoryProgramming TagCategory = "Programming"
	CategoryDataScience TagCategory = "Data Science"
	CategoryDevOps      TagCategory = "DevOps"
	CategoryMobile      TagCategory = "Mobile Development"
	CategoryOther       TagCategory = "Other"
)

func (c TagCategory) Valid() bool {
	switch c {
	case CategoryWeb, CategoryProgramming, CategoryDataScience, CategoryDevOps, CategoryMobile, CategoryOther:
		return true
	}
	return false
}

type Tag struct {
	BaseModel
	Name        string      `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Description string      `gorm:"size:200;not null" json:"description"`
	Category    TagCategory `gorm:"size:30;not null;index" json:"category"`
	IsActive    bool        `gorm:"default:true" json:"isActive"`

	// 引用该标签的未删除问题数
	UsageCount int `gorm:"->;-:migration" json:"usageCount"`
}

func (Tag) TableName() string {
	return "tags"
}
