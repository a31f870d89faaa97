package service

import (
	"context"
	"fmt"
	"study_planner_backend/internal/util"
	"study_planner_backend/pkg/logger"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GenerationLock 防止同一课程并发生成路线；被占用时返回 util.ErrGenerationInFlight
type GenerationLock interface {
	Acquire(ctx context.Context, classID uint) (release func(), err error)
}

// GenerationGracePeriod 在补全超时之外预留的时间，锁的 TTL 和空路线的过期判断都用它
const GenerationGracePeriod = 30 * time.Second

// LocalGenerationLock 单进程内按课程加锁，未启用 Redis 时使用
type LocalGenerationLock struct {
	held sync.Map
}

func (l *LocalGenerationLock) Acquire(ctx context.Context, classID uint) (func(), error) {
	if _, loaded := l.held.LoadOrStore(classID, struct{}{}); loaded {
		return nil, util.ErrGenerationInFlight
	}
	var once sync.Once
	return func() {
		once.Do(func() { l.held.Delete(classID) })
	}, nil
}

// 只删除自己持有的锁
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisGenerationLock struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisGenerationLock(rdb *redis.Client, ttl time.Duration) *RedisGenerationLock {
	return &RedisGenerationLock{rdb: rdb, ttl: ttl}
}

func generationLockKey(classID uint) string {
	return fmt.Sprintf("roadmap:generate:%d", classID)
}

func (l *RedisGenerationLock) Acquire(ctx context.Context, classID uint) (func(), error) {
	key := generationLockKey(classID)
	token := uuid.New().String()

	ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, util.NewPersistenceError(err)
	}
	if !ok {
		return nil, util.ErrGenerationInFlight
	}

	return func() {
		// 请求可能已被取消，释放锁使用独立的 context
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, l.rdb, []string{key}, token).Err(); err != nil {
			logger.Log.Warn("Failed to release generation lock", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

// NewGenerationLock Redis 未启用时退化为进程内锁
func NewGenerationLock(rdb *redis.Client, aiTimeout time.Duration) GenerationLock {
	if rdb == nil {
		return &LocalGenerationLock{}
	}
	return NewRedisGenerationLock(rdb, aiTimeout+GenerationGracePeriod)
}
