//go:build !ci

package sound

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

const sampleRate = beep.SampleRate(44100)

// 内置提示音: 每个音符持续 noteLength
var chimes = map[string][]float64{
	Reconnect: {659.25, 880},
	Answers:   {523.25, 659.25, 783.99},
}

const noteLength = 90 * time.Millisecond

type SoundManager struct {
	dir     string
	buffers map[string]*beep.Buffer
	enabled bool
}

// NewSoundManager 创建管理器, dir 中的 mp3/wav 文件会覆盖同名内置提示音.
func NewSoundManager(dir string) *SoundManager {
	return &SoundManager{
		dir:     dir,
		buffers: make(map[string]*beep.Buffer),
	}
}

func (sm *SoundManager) Init() error {
	// Init speaker with smaller buffer for lower latency
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("failed to initialize speaker: %w", err)
	}

	for name, notes := range chimes {
		buf, err := synthesize(sampleRate, notes, noteLength)
		if err != nil {
			return fmt.Errorf("build chime %s: %w", name, err)
		}
		sm.buffers[name] = buf
	}

	if err := sm.loadSoundFiles(); err != nil {
		return err
	}
	sm.enabled = true
	return nil
}

// synthesize 把若干正弦音依次写入一个缓冲区
func synthesize(sr beep.SampleRate, notes []float64, length time.Duration) (*beep.Buffer, error) {
	buffer := beep.NewBuffer(beep.Format{SampleRate: sr, NumChannels: 2, Precision: 2})
	for _, freq := range notes {
		tone, err := generators.SineTone(sr, freq)
		if err != nil {
			return nil, err
		}
		buffer.Append(beep.Take(sr.N(length), tone))
	}
	return buffer, nil
}

func (sm *SoundManager) loadSoundFiles() error {
	if sm.dir == "" {
		return nil
	}
	files, err := os.ReadDir(sm.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read sound directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(file.Name()))
		if ext != ".mp3" && ext != ".wav" {
			continue
		}
		// 单个文件损坏不影响其他提示音
		_ = sm.loadSoundFile(file.Name(), ext)
	}
	return nil
}

func (sm *SoundManager) loadSoundFile(name, ext string) error {
	f, err := os.Open(filepath.Clean(filepath.Join(sm.dir, name)))
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	var streamer beep.StreamSeekCloser
	var format beep.Format
	switch ext {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	}
	if err != nil {
		return err
	}
	defer func() { _ = streamer.Close() }()

	var resampled beep.Streamer = streamer
	if format.SampleRate != sampleRate {
		resampled = beep.Resample(4, format.SampleRate, sampleRate, streamer)
	}

	buffer := beep.NewBuffer(beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2})
	buffer.Append(resampled)
	sm.buffers[strings.TrimSuffix(name, filepath.Ext(name))] = buffer
	return nil
}

// Play 播放提示音, 未初始化或名称未知时静默忽略.
func (sm *SoundManager) Play(name string) {
	if !sm.enabled {
		return
	}
	buffer, ok := sm.buffers[name]
	if !ok {
		return
	}
	speaker.Play(buffer.Streamer(0, buffer.Len()))
}

func (sm *SoundManager) Close() {
	sm.enabled = false
}
