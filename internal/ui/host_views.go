package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/leebox"
)

const maxAnswerWidth = 60

// View renders the model.
func (m *HostModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var sb strings.Builder
	sb.WriteString(m.headerView())
	sb.WriteString("\n\n")
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		boxStyle.Render(m.rosterView()),
		" ",
		boxStyle.Render(m.reconnectView()),
	))
	sb.WriteString("\n")

	if answers := m.answersView(); answers != "" {
		sb.WriteString(boxStyle.Render(answers))
		sb.WriteString("\n")
	}
	if n := m.notificationView(); n != "" {
		sb.WriteString(n)
		sb.WriteString("\n")
	}
	if m.phase.composing() {
		sb.WriteString(promptStyle.Render(m.input.View()))
		sb.WriteString("\n")
	}
	sb.WriteString(dimStyle.Render(helpLine(m.phase)))

	return docStyle.Render(sb.String())
}

func (m *HostModel) headerView() string {
	lock := UnlockedIcon + " 开放"
	if m.room.Locked() {
		lock = LockedIcon + " 已锁定"
	}
	title := titleStyle(fmt.Sprintf("🎲 Leebox 房间 %s", m.room.ID()))
	status := fmt.Sprintf("%s   玩家 %d/%d", lock, m.room.PlayerCount(), m.room.MaxPlayers())
	if m.busy {
		status += "   " + warnStyle.Render("⏳ 请求中...")
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, status)
}

func (m *HostModel) rosterView() string {
	players := m.room.Players()
	if len(players) == 0 {
		return "玩家\n\n" + dimStyle.Render("等待玩家加入...")
	}
	lines := make([]string, 0, len(players)+2)
	lines = append(lines, "玩家", "")
	for i, p := range players {
		lines = append(lines, fmt.Sprintf("%d. %s %s", i+1, PlayerIcon, p.Name))
	}
	return strings.Join(lines, "\n")
}

func (m *HostModel) reconnectView() string {
	queue := m.room.Reconnected()
	if len(queue) == 0 {
		return "重连队列\n\n" + dimStyle.Render("空")
	}
	lines := []string{"重连队列 (最新在前)", ""}
	for _, p := range queue {
		lines = append(lines, ReconnectIcon+" "+p.Name)
	}
	return strings.Join(lines, "\n")
}

func (m *HostModel) answersView() string {
	if m.lastPrompt == "" {
		return ""
	}
	lines := []string{fmt.Sprintf("%s: %s", kindLabel(m.lastKind), m.lastPrompt), ""}
	if len(m.lastAnswers) == 0 {
		lines = append(lines, dimStyle.Render("没有玩家回答"))
	}
	lines = append(lines, FormatAnswers(m.lastKind, m.lastAnswers)...)
	return strings.Join(lines, "\n")
}

func (m *HostModel) notificationView() string {
	n := m.notification
	if n == nil {
		return ""
	}
	switch n.Type {
	case NotifyError:
		return errorStyle.Render(n.Message)
	case NotifyReconnect:
		return warnStyle.Render(n.Message)
	default:
		return successStyle.Render(n.Message)
	}
}

func kindLabel(kind string) string {
	if kind == KindDraw {
		return "🎨 绘画"
	}
	return "❓ 提问"
}

// summarizeAnswer 绘画答案是图片数据, 只显示大小
func summarizeAnswer(kind, value string) string {
	if kind == KindDraw {
		return fmt.Sprintf("[图片 %d 字节]", len(value))
	}
	return truncate(value, maxAnswerWidth)
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+3 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

func helpLine(p Phase) string {
	if p.composing() {
		return "Enter 发送 • Esc 取消"
	}
	return "R 同步 • L 锁定/开放 • B 广播 • A 提问 • D 绘画 • P 处理重连 • Q 退出"
}

// FormatAnswers renders one line per answer, as the console shows them.
func FormatAnswers(kind string, answers []leebox.Answer) []string {
	lines := make([]string, 0, len(answers))
	for _, a := range answers {
		lines = append(lines, fmt.Sprintf("%s: %s", a.Player.Name, summarizeAnswer(kind, a.Value)))
	}
	return lines
}
