package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/leebox"
	"github.com/palemoky/leebox/internal/logger"
	"github.com/palemoky/leebox/internal/sound"
)

const notificationTTL = 3 * time.Second

// Options tunes the host console.
type Options struct {
	// SyncInterval is the period of the automatic sync; 0 disables it.
	SyncInterval time.Duration
	// PromptTimeout is passed to every group prompt; 0 means the session default.
	PromptTimeout int
	// SoundDir holds mp3/wav files overriding the built-in chimes.
	SoundDir string
}

// HostModel is the tea.Model of the host console.
type HostModel struct {
	ctx    context.Context
	cancel context.CancelFunc
	room   RoomController
	opts   Options

	phase        Phase
	busy         bool
	notification *Notification

	// 最近一次群体提问
	lastKind    string
	lastPrompt  string
	lastAnswers []leebox.Answer

	soundManager *sound.SoundManager

	input  *textinput.Model
	width  int
	height int
}

// NewHostModel creates the console for room. Canceling ctx aborts pending
// requests; quitting the console cancels it too.
func NewHostModel(ctx context.Context, room RoomController, opts Options) *HostModel {
	ti := textinput.New()
	ti.CharLimit = 200
	ti.Width = 50

	ctx, cancel := context.WithCancel(ctx)
	return &HostModel{
		ctx:          ctx,
		cancel:       cancel,
		room:         room,
		opts:         opts,
		phase:        PhaseIdle,
		input:        &ti,
		soundManager: sound.NewSoundManager(opts.SoundDir),
	}
}

func (m *HostModel) Init() tea.Cmd {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.LogPanic(r)
			}
		}()
		if err := m.soundManager.Init(); err != nil {
			logger.LogError("sound disabled: %v", err)
		}
	}()

	return tea.Batch(
		textinput.Blink,
		m.syncRoom(),
		m.scheduleSync(),
	)
}

func (m *HostModel) Phase() Phase                 { return m.phase }
func (m *HostModel) Busy() bool                   { return m.busy }
func (m *HostModel) Notification() *Notification  { return m.notification }
func (m *HostModel) LastAnswers() []leebox.Answer { return m.lastAnswers }

// SetNotification replaces the status line.
func (m *HostModel) SetNotification(t NotificationType, message string) {
	m.notification = &Notification{Message: message, Type: t}
}

func (m *HostModel) enterPhase(p Phase) {
	m.phase = p
	m.input.Reset()
	switch p {
	case PhaseBroadcast:
		m.input.Placeholder = "广播内容, 回车发送, ESC 取消"
	case PhaseAsk:
		m.input.Placeholder = "问题, 回车提问所有玩家"
	case PhaseDraw:
		m.input.Placeholder = "绘画题目, 回车发送"
	default:
		m.input.Placeholder = ""
		m.input.Blur()
		return
	}
	m.input.Focus()
}

// Update handles tea messages.
func (m *HostModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case syncTickMsg:
		if !m.busy {
			cmds = append(cmds, m.syncRoom())
		}
		cmds = append(cmds, m.scheduleSync())

	case SyncedMsg:
		cmds = append(cmds, m.handleSynced(msg))

	case LockedMsg:
		cmds = append(cmds, m.handleLocked(msg))

	case BroadcastSentMsg:
		cmds = append(cmds, m.handleBroadcastSent(msg))

	case AnswersMsg:
		cmds = append(cmds, m.handleAnswers(msg))

	case ClearNotificationMsg:
		m.notification = nil

	case tea.KeyMsg:
		handled, cmd := m.handleKey(msg)
		if handled {
			return m, cmd
		}
	}

	if m.phase.composing() {
		newInput, cmd := m.input.Update(msg)
		*m.input = newInput
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}
