package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/palemoky/leebox"
	"github.com/palemoky/leebox/internal/config"
	"github.com/palemoky/leebox/internal/logger"
	"github.com/palemoky/leebox/internal/storage"
)

var (
	configFile string
	address    string
)

var rootCmd = &cobra.Command{
	Use:           "leebox",
	Short:         "leebox 房间服务命令行",
	Long:          `leebox 创建房间、主持房间并向玩家提问`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "配置文件路径 (YAML)")
	rootCmd.PersistentFlags().StringVar(&address, "address", "", "服务地址, 覆盖配置文件")

	rootCmd.AddCommand(newCreateCmd(), newHostCmd(), newAskCmd(), newHistoryCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Default().Error("command failed", "err", err)
		stop()
		os.Exit(1)
	}
}

// loadConfig 读取配置文件, 未指定时使用默认配置
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if address != "" {
		cfg.Service.Address = address
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// openSession 创建会话, 配置了 Redis 时同时启用答案记录. 返回的 closer 必须调用.
func openSession(ctx context.Context, cfg *config.Config, l *log.Logger) (*leebox.Session, func(), error) {
	opts := []leebox.Option{leebox.WithLogger(l)}
	closer := func() {}

	if cfg.Redis.JournalEnabled() {
		store, err := storage.Dial(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("connect journal: %w", err)
		}
		l.Info("journal enabled", "redis", cfg.Redis.Addr)
		opts = append(opts, leebox.WithJournal(store))
		closer = func() { _ = store.Close() }
	}

	return leebox.FromConfig(cfg, opts...), closer, nil
}
