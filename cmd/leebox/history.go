package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/palemoky/leebox"
	"github.com/palemoky/leebox/internal/logger"
	"github.com/palemoky/leebox/internal/storage"
	"github.com/palemoky/leebox/internal/ui"
)

var errJournalDisabled = errors.New("未配置 redis.addr, 没有答案记录")

func newHistoryCmd() *cobra.Command {
	var (
		roomID string
		limit  int
		remove bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "查看房间的答案记录",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger.Init(os.Stderr, cfg.Log.Level)
			if !cfg.Redis.JournalEnabled() {
				return errJournalDisabled
			}

			ctx := cmd.Context()
			store, err := storage.Dial(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
			if err != nil {
				return fmt.Errorf("connect journal: %w", err)
			}
			defer func() { _ = store.Close() }()

			out := cmd.OutOrStdout()
			if remove {
				if err := store.DeleteRoom(ctx, roomID); err != nil {
					return err
				}
				fmt.Fprintf(out, "已删除房间 %s 的记录\n", roomID)
				return nil
			}

			roster, err := store.LoadRoster(ctx, roomID)
			if err != nil {
				return err
			}
			printRoster(out, roomID, roster)

			prompts, err := store.ListPrompts(ctx, roomID, limit)
			if err != nil {
				return err
			}
			for _, promptID := range prompts {
				data, err := store.LoadAnswers(ctx, roomID, promptID)
				if err != nil {
					return err
				}
				// 提问元数据已过期
				if data == nil {
					continue
				}
				printAnswers(out, roster, data)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&roomID, "room", "", "房间号")
	cmd.Flags().IntVar(&limit, "limit", 10, "最近几次提问, 0 表示全部")
	cmd.Flags().BoolVar(&remove, "delete", false, "删除房间的全部记录")
	_ = cmd.MarkFlagRequired("room")
	return cmd
}

func printRoster(w io.Writer, roomID string, roster *storage.RosterData) {
	if roster == nil {
		fmt.Fprintf(w, "房间 %s: 没有快照\n", roomID)
		return
	}
	lock := "开放"
	if roster.Locked {
		lock = "已锁定"
	}
	fmt.Fprintf(w, "房间 %s: %d 名玩家, %s, 同步于 %s\n",
		roomID, roster.PlayerCount, lock, time.Unix(roster.SyncedAt, 0).Format(time.DateTime))
	for _, p := range roster.Players {
		fmt.Fprintf(w, "  %s (%s)\n", p.Name, p.ID)
	}
}

// printAnswers 按快照中的玩家顺序输出, 快照里没有的玩家按 id 排在最后
func printAnswers(w io.Writer, roster *storage.RosterData, data *storage.AnswerData) {
	fmt.Fprintf(w, "[%s] %s (%s)\n", data.Kind, data.Prompt, time.Unix(data.AskedAt, 0).Format(time.DateTime))

	answers := make([]leebox.Answer, 0, len(data.Answers))
	known := make(map[string]bool)
	if roster != nil {
		for _, p := range roster.Players {
			if v, ok := data.Answers[p.ID]; ok {
				known[p.ID] = true
				answers = append(answers, leebox.Answer{Player: &leebox.Player{ID: p.ID, Name: p.Name}, Value: v})
			}
		}
	}
	var rest []string
	for id := range data.Answers {
		if !known[id] {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	for _, id := range rest {
		answers = append(answers, leebox.Answer{Player: &leebox.Player{ID: id, Name: id}, Value: data.Answers[id]})
	}

	for _, line := range ui.FormatAnswers(data.Kind, answers) {
		fmt.Fprintf(w, "  %s\n", line)
	}
}
