package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Redis key 前缀
	rosterKeyPrefix  = "room:"
	answerKeyPrefix  = "answers:"
	promptKeyPrefix  = "prompts:"
	promptMetaPrefix = "prompt:"

	// 数据过期时间
	roomExpiration = 2 * time.Hour
)

// RosterData 房间快照（按 playerId 记录，不依赖本地句柄）
type RosterData struct {
	RoomID      string       `json:"room_id"`
	PlayerCount int          `json:"player_count"`
	Locked      bool         `json:"locked"`
	Players     []PlayerData `json:"players"`
	SyncedAt    int64        `json:"synced_at"`
}

// PlayerData 玩家数据
type PlayerData struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AnswerData 一次群发提问的结果
type AnswerData struct {
	PromptID string            `json:"prompt_id"`
	Kind     string            `json:"kind"` // ask / options / draw
	Prompt   string            `json:"prompt"`
	Answers  map[string]string `json:"-"` // playerId -> answer
	AskedAt  int64             `json:"asked_at"`
}

// RedisStore Redis 存储
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore 创建 Redis 存储
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Dial 按地址创建 Redis 存储并检查连通性
func Dial(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("连接 Redis 失败: %w", err)
	}
	return NewRedisStore(client), nil
}

// Close 关闭连接
func (rs *RedisStore) Close() error {
	return rs.client.Close()
}

// --- 房间快照 ---

// SaveRoster 保存房间快照
func (rs *RedisStore) SaveRoster(ctx context.Context, roomID string, data *RosterData) error {
	if data == nil {
		return nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("序列化房间数据失败: %w", err)
	}

	return rs.client.Set(ctx, rosterKeyPrefix+roomID, jsonData, roomExpiration).Err()
}

// LoadRoster 加载房间快照，不存在时返回 nil, nil
func (rs *RedisStore) LoadRoster(ctx context.Context, roomID string) (*RosterData, error) {
	data, err := rs.client.Get(ctx, rosterKeyPrefix+roomID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var roster RosterData
	if err := json.Unmarshal(data, &roster); err != nil {
		return nil, fmt.Errorf("反序列化房间数据失败: %w", err)
	}
	return &roster, nil
}

// --- 答案记录 ---

func answerKey(roomID, promptID string) string {
	return answerKeyPrefix + roomID + ":" + promptID
}

func promptMetaKey(roomID, promptID string) string {
	return promptMetaPrefix + roomID + ":" + promptID
}

// SaveAnswers 记录一次群发提问：答案写入 hash，提问元数据单独保存，提问 ID 追加到房间列表
func (rs *RedisStore) SaveAnswers(ctx context.Context, roomID string, data *AnswerData) error {
	if data == nil || data.PromptID == "" {
		return nil
	}

	meta, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("序列化提问数据失败: %w", err)
	}

	pipe := rs.client.TxPipeline()
	hashKey := answerKey(roomID, data.PromptID)
	if len(data.Answers) > 0 {
		values := make(map[string]any, len(data.Answers))
		for playerID, answer := range data.Answers {
			values[playerID] = answer
		}
		pipe.HSet(ctx, hashKey, values)
		pipe.Expire(ctx, hashKey, roomExpiration)
	}
	pipe.Set(ctx, promptMetaKey(roomID, data.PromptID), meta, roomExpiration)
	pipe.RPush(ctx, promptKeyPrefix+roomID, data.PromptID)
	pipe.Expire(ctx, promptKeyPrefix+roomID, roomExpiration)

	_, err = pipe.Exec(ctx)
	return err
}

// LoadAnswers 加载一次提问的记录，不存在时返回 nil, nil
func (rs *RedisStore) LoadAnswers(ctx context.Context, roomID, promptID string) (*AnswerData, error) {
	meta, err := rs.client.Get(ctx, promptMetaKey(roomID, promptID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var data AnswerData
	if err := json.Unmarshal(meta, &data); err != nil {
		return nil, fmt.Errorf("反序列化提问数据失败: %w", err)
	}

	answers, err := rs.client.HGetAll(ctx, answerKey(roomID, promptID)).Result()
	if err != nil {
		return nil, err
	}
	data.Answers = answers
	return &data, nil
}

// ListPrompts 返回房间最近 limit 次提问的 ID（从旧到新），limit <= 0 返回全部
func (rs *RedisStore) ListPrompts(ctx context.Context, roomID string, limit int) ([]string, error) {
	start := int64(0)
	if limit > 0 {
		start = -int64(limit)
	}
	return rs.client.LRange(ctx, promptKeyPrefix+roomID, start, -1).Result()
}

// DeleteRoom 删除房间的所有记录
func (rs *RedisStore) DeleteRoom(ctx context.Context, roomID string) error {
	prompts, err := rs.ListPrompts(ctx, roomID, 0)
	if err != nil {
		return err
	}

	keys := []string{rosterKeyPrefix + roomID, promptKeyPrefix + roomID}
	for _, promptID := range prompts {
		keys = append(keys, answerKey(roomID, promptID), promptMetaKey(roomID, promptID))
	}
	return rs.client.Del(ctx, keys...).Err()
}
