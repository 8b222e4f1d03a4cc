package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/leebox/internal/sound"
)

func (m *HostModel) notifyError(prefix string, err error) tea.Cmd {
	m.SetNotification(NotifyError, fmt.Sprintf("⚠️ %s: %v", prefix, err))
	return clearNotificationLater()
}

func (m *HostModel) handleSynced(msg SyncedMsg) tea.Cmd {
	m.busy = false
	if msg.Err != nil {
		return m.notifyError("同步失败", msg.Err)
	}
	if msg.NewReconnects > 0 {
		m.soundManager.Play(sound.Reconnect)
		m.SetNotification(NotifyReconnect, fmt.Sprintf("%s %d 位玩家重新连接, 按 P 处理", ReconnectIcon, msg.NewReconnects))
		return clearNotificationLater()
	}
	return nil
}

func (m *HostModel) handleLocked(msg LockedMsg) tea.Cmd {
	m.busy = false
	if msg.Err != nil {
		return m.notifyError("修改锁定状态失败", msg.Err)
	}
	if msg.Locked {
		m.SetNotification(NotifyInfo, LockedIcon+" 房间已锁定")
	} else {
		m.SetNotification(NotifyInfo, UnlockedIcon+" 房间已开放")
	}
	return clearNotificationLater()
}

func (m *HostModel) handleBroadcastSent(msg BroadcastSentMsg) tea.Cmd {
	if msg.Err != nil {
		return m.notifyError("广播失败", msg.Err)
	}
	m.SetNotification(NotifyInfo, "📣 已广播: "+msg.Message)
	return clearNotificationLater()
}

func (m *HostModel) handleAnswers(msg AnswersMsg) tea.Cmd {
	m.busy = false
	if msg.Err != nil {
		return m.notifyError("提问失败", msg.Err)
	}
	m.lastKind = msg.Kind
	m.lastPrompt = msg.Prompt
	m.lastAnswers = msg.Answers.InOrder(m.room.Players())
	m.soundManager.Play(sound.Answers)
	m.SetNotification(NotifyInfo, fmt.Sprintf("✅ 收到 %d 份回答", len(m.lastAnswers)))
	return clearNotificationLater()
}

func (m *HostModel) popReconnected() tea.Cmd {
	p, ok := m.room.PopReconnected()
	if !ok {
		m.SetNotification(NotifyInfo, "没有待处理的重连玩家")
	} else {
		m.SetNotification(NotifyReconnect, fmt.Sprintf("%s 已处理重连: %s", ReconnectIcon, p.Name))
	}
	return clearNotificationLater()
}
