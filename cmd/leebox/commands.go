package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/palemoky/leebox"
	"github.com/palemoky/leebox/internal/logger"
	"github.com/palemoky/leebox/internal/ui"
)

const joinPollInterval = 2 * time.Second

func newCreateCmd() *cobra.Command {
	var maxPlayers int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "创建房间并输出房间号",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			l := logger.Init(os.Stderr, cfg.Log.Level)

			s, closeSession, err := openSession(cmd.Context(), cfg, l)
			if err != nil {
				return err
			}
			defer closeSession()

			if maxPlayers <= 0 {
				maxPlayers = cfg.Room.MaxPlayers
			}
			room, err := s.CreateRoom(cmd.Context(), maxPlayers)
			if err != nil {
				return err
			}
			// 密钥只保存在进程内, 不输出
			fmt.Fprintln(cmd.OutOrStdout(), room.ID())
			return nil
		},
	}
	cmd.Flags().IntVar(&maxPlayers, "max-players", 0, "房间人数上限, 默认取配置")
	return cmd
}

func newHostCmd() *cobra.Command {
	var (
		maxPlayers   int
		syncInterval time.Duration
		soundDir     string
	)

	cmd := &cobra.Command{
		Use:   "host",
		Short: "创建房间并打开主持人控制台",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			// 控制台占用终端, 日志写入文件
			l, err := logger.InitFile(cfg.Log.Level)
			if err != nil {
				return err
			}
			defer logger.Close()

			s, closeSession, err := openSession(cmd.Context(), cfg, l)
			if err != nil {
				return err
			}
			defer closeSession()

			if maxPlayers <= 0 {
				maxPlayers = cfg.Room.MaxPlayers
			}
			room, err := s.CreateRoom(cmd.Context(), maxPlayers)
			if err != nil {
				logger.LogError("create room failed: %v", err)
				return err
			}

			return runConsole(cmd, room, ui.Options{
				SyncInterval:  syncInterval,
				PromptTimeout: cfg.Room.PromptTimeout,
				SoundDir:      soundDir,
			})
		},
	}
	cmd.Flags().IntVar(&maxPlayers, "max-players", 0, "房间人数上限, 默认取配置")
	cmd.Flags().DurationVar(&syncInterval, "sync-interval", 3*time.Second, "自动同步间隔, 0 表示关闭")
	cmd.Flags().StringVar(&soundDir, "sounds", "assets/sounds", "自定义提示音目录")
	return cmd
}

// runConsole 运行主持人控制台, panic 记录到日志文件后以错误返回
func runConsole(cmd *cobra.Command, room *leebox.Room, opts ui.Options) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
			err = fmt.Errorf("控制台异常退出, 详见 %s", logger.GetLogPath())
		}
	}()

	model := ui.NewHostModel(cmd.Context(), room, opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.LogError("console stopped: %v", err)
		return fmt.Errorf("启动控制台时出错: %w", err)
	}
	logger.LogInfo("console closed, room %s", room.ID())
	return nil
}

func newAskCmd() *cobra.Command {
	var (
		maxPlayers int
		question   string
		timeout    int
		wait       time.Duration
	)

	cmd := &cobra.Command{
		Use:   "ask",
		Short: "创建房间, 等待玩家加入后提问并输出回答",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			l := logger.Init(os.Stderr, cfg.Log.Level)
			ctx := cmd.Context()

			s, closeSession, err := openSession(ctx, cfg, l)
			if err != nil {
				return err
			}
			defer closeSession()

			if maxPlayers <= 0 {
				maxPlayers = cfg.Room.MaxPlayers
			}
			room, err := s.CreateRoom(ctx, maxPlayers)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "房间号: %s\n", room.ID())

			if err := waitForPlayers(cmd, room, wait); err != nil {
				return err
			}
			if len(room.Players()) == 0 {
				return errors.New("没有玩家加入")
			}

			answers, err := room.AskAll(ctx, question, timeout)
			if err != nil {
				return err
			}
			for _, line := range ui.FormatAnswers(ui.KindAsk, answers.InOrder(room.Players())) {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&maxPlayers, "max-players", 0, "房间人数上限, 默认取配置")
	cmd.Flags().StringVar(&question, "question", "", "问题")
	cmd.Flags().IntVar(&timeout, "timeout", 0, "回答超时（秒）, 默认取配置")
	cmd.Flags().DurationVar(&wait, "wait", 30*time.Second, "等待玩家加入的时间")
	_ = cmd.MarkFlagRequired("question")
	return cmd
}

// waitForPlayers 周期性同步房间直到 wait 结束, 期间输出新加入的玩家
func waitForPlayers(cmd *cobra.Command, room *leebox.Room, wait time.Duration) error {
	ctx := cmd.Context()
	deadline := time.After(wait)
	ticker := time.NewTicker(joinPollInterval)
	defer ticker.Stop()

	seen := make(map[string]bool)
	for {
		if err := room.Sync(ctx); err != nil {
			return err
		}
		for p := range room.All() {
			if !seen[p.ID] {
				seen[p.ID] = true
				fmt.Fprintf(cmd.OutOrStdout(), "加入: %s\n", p.Name)
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline:
			return nil
		case <-ticker.C:
		}
	}
}
