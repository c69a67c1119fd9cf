package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iWorld-y/company_compass/app/compass/pkg/config"
	"github.com/iWorld-y/company_compass/app/compass/pkg/logger"
)

// go build -ldflags "-X main.Version=x.y.z"
var (
	// Name 是服务的名称
	Name = "compass"
	// Version 是服务的版本号
	Version = "dev"
	// flagconf 是配置文件的路径命令行参数
	flagconf string
	// flagenv 是 .env 文件路径
	flagenv string

	id, _ = os.Hostname()
)

var rootCmd = &cobra.Command{
	Use:   "compass",
	Short: "Corporate report generator",
	Long: `compass 根据公司名称与国家生成企业概况报告：
通过 Google 搜索收集高管线索，向语言模型询问使命愿景、高管、新闻与官网，
并输出 HTML 与 PDF。`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagconf, "conf", "app/compass/configs/config.yaml", "config path, eg: --conf config.yaml")
	rootCmd.PersistentFlags().StringVar(&flagenv, "env-file", ".env", "optional .env file with credentials")
	rootCmd.AddCommand(serveCmd, generateCmd, versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", Name, Version)
	},
}

// loadConfig 加载 .env、配置文件并初始化日志
func loadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(flagenv); err != nil {
		return nil, fmt.Errorf("无法加载 .env: %w", err)
	}

	var (
		cfg *config.Config
		err error
	)
	if _, statErr := os.Stat(flagconf); statErr == nil {
		cfg, err = config.LoadConfig(flagconf)
	} else {
		// 没有配置文件时仅使用默认值与环境变量
		cfg = config.Default()
		err = cfg.ApplyEnv()
	}
	if err != nil {
		return nil, err
	}

	if _, err := logger.InitLogger(logger.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
	}); err != nil {
		return nil, fmt.Errorf("无法初始化日志: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
