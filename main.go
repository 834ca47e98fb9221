// @title StackIt 问答社区 API
// @version 1.0
// @description StackIt 问答社区的后端服务。

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"stackit_backend/internal/app"
	"stackit_backend/internal/config"
	"stackit_backend/pkg/database"
	"stackit_backend/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	configDir    string
	forceMigrate bool
	tagFile      string
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.ForceMigrate = forceMigrate

	application, err := app.NewApp(cfg, filepath.Join(configDir, "config.yaml"))
	if err != nil {
		return err
	}
	application.Run()
	return nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:          "stackit",
		Short:        "StackIt 问答社区后端",
		SilenceUsage: true,
		RunE:         serve,
	}
	rootCmd.PersistentFlags().StringVarP(&configDir, "config", "c", "configs", "配置文件目录")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP 服务",
		RunE:  serve,
	}
	serveCmd.Flags().BoolVar(&forceMigrate, "migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")
	rootCmd.Flags().BoolVar(&forceMigrate, "migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "只执行数据库迁移，完成后退出",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger.InitLogger(cfg)
			db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
			if err != nil {
				return err
			}
			return database.Migrate(db)
		},
	}

	seedCmd := &cobra.Command{
		Use:   "seed-tags",
		Short: "写入默认标签，已存在的跳过",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger.InitLogger(cfg)
			db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
			if err != nil {
				return err
			}
			tags := database.DefaultTags()
			if tagFile != "" {
				if tags, err = database.LoadTagCatalog(tagFile); err != nil {
					return err
				}
			}
			created, err := database.SeedTags(db, tags)
			if err != nil {
				return err
			}
			cmd.Printf("Seeded %d tags\n", created)
			return nil
		},
	}

	seedCmd.Flags().StringVarP(&tagFile, "file", "f", "", "YAML 标签目录，不指定时使用内置默认标签")

	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
