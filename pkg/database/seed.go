package database

import (
	"fmt"
	"os"
	"stackit_backend/internal/model"
	"strings"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var defaultTags = []model.Tag{
	{Name: "javascript", Description: "JavaScript programming language", Category: model.CategoryWeb},
	{Name: "typescript", Description: "TypeScript programming language", Category: model.CategoryWeb},
	{Name: "react", Description: "React.js library for building user interfaces", Category: model.CategoryWeb},
	{Name: "html", Description: "HyperText Markup Language", Category: model.CategoryWeb},
	{Name: "css", Description: "Cascading Style Sheets", Category: model.CategoryWeb},
	{Name: "nodejs", Description: "Node.js runtime environment", Category: model.CategoryWeb},
	{Name: "rest-api", Description: "RESTful API development", Category: model.CategoryWeb},
	{Name: "graphql", Description: "GraphQL query language", Category: model.CategoryWeb},
	{Name: "go", Description: "Go programming language", Category: model.CategoryProgramming},
	{Name: "python", Description: "Python programming language", Category: model.CategoryProgramming},
	{Name: "java", Description: "Java programming language", Category: model.CategoryProgramming},
	{Name: "rust", Description: "Rust programming language", Category: model.CategoryProgramming},
	{Name: "cpp", Description: "C++ programming language", Category: model.CategoryProgramming},
	{Name: "dsa", Description: "Data Structures and Algorithms", Category: model.CategoryProgramming},
	{Name: "dynamic-programming", Description: "Dynamic programming techniques", Category: model.CategoryProgramming},
	{Name: "machine-learning", Description: "Machine Learning algorithms and techniques", Category: model.CategoryDataScience},
	{Name: "pandas", Description: "Pandas data manipulation library", Category: model.CategoryDataScience},
	{Name: "nlp", Description: "Natural Language Processing", Category: model.CategoryDataScience},
	{Name: "docker", Description: "Docker containerization platform", Category: model.CategoryDevOps},
	{Name: "kubernetes", Description: "Kubernetes container orchestration", Category: model.CategoryDevOps},
	{Name: "git", Description: "Git version control system", Category: model.CategoryDevOps},
	{Name: "terraform", Description: "Terraform infrastructure as code", Category: model.CategoryDevOps},
	{Name: "prometheus", Description: "Prometheus monitoring system", Category: model.CategoryDevOps},
	{Name: "android", Description: "Android development", Category: model.CategoryMobile},
	{Name: "ios", Description: "iOS development", Category: model.CategoryMobile},
	{Name: "flutter", Description: "Flutter mobile app framework", Category: model.CategoryMobile},
	{Name: "mongodb", Description: "MongoDB NoSQL database", Category: model.CategoryOther},
	{Name: "sql", Description: "Structured Query Language", Category: model.CategoryOther},
}

// tagCatalog 标签目录文件格式
type tagCatalog struct {
	Tags []struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Category    string `yaml:"category"`
	} `yaml:"tags"`
}

func DefaultTags() []model.Tag {
	tags := make([]model.Tag, len(defaultTags))
	copy(tags, defaultTags)
	return tags
}

// LoadTagCatalog 从 YAML 文件读取标签，名称统一转小写，分类必须合法
func LoadTagCatalog(path string) ([]model.Tag, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var catalog tagCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parse tag catalog: %w", err)
	}

	tags := make([]model.Tag, 0, len(catalog.Tags))
	for i, t := range catalog.Tags {
		name := strings.ToLower(strings.TrimSpace(t.Name))
		if name == "" {
			return nil, fmt.Errorf("tag #%d has no name", i+1)
		}
		category := model.TagCategory(t.Category)
		if !category.Valid() {
			return nil, fmt.Errorf("tag %q has invalid category %q", name, t.Category)
		}
		tags = append(tags, model.Tag{Name: name, Description: t.Description, Category: category})
	}
	return tags, nil
}

// SeedTags 写入标签，已存在的同名标签跳过，返回本次新增数量
func SeedTags(db *gorm.DB, tags []model.Tag) (int64, error) {
	if len(tags) == 0 {
		return 0, nil
	}
	for i := range tags {
		tags[i].IsActive = true
	}

	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&tags)
	return res.RowsAffected, res.Error
}
