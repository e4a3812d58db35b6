package poll

import (
	"context"
	"errors"
	"time"
)

// ErrExhausted 轮询次数用尽仍未完成
var ErrExhausted = errors.New("poll attempts exhausted")

// permanentError 包装后的错误会立即终止轮询
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }

func (e *permanentError) Unwrap() error { return e.err }

// Permanent 标记不可重试的错误，Until 遇到后立即返回该错误
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Policy 固定间隔轮询策略
//
// 不做退避、不加抖动；仅在两次尝试之间休眠 Interval。
type Policy struct {
	Interval    time.Duration // 两次尝试之间的间隔
	MaxAttempts int           // 最大尝试次数
	// OnError 单次尝试返回错误时的回调（可选），错误不会终止轮询
	OnError func(attempt int, err error)
}

// Attempt 单次轮询尝试
//
// 返回 done=true 表示已得到结果，轮询结束。
type Attempt[T any] func(ctx context.Context, attempt int) (value T, done bool, err error)

// Until 按策略反复执行 fn，直到 fn 报告完成、次数用尽或 ctx 被取消。
func Until[T any](ctx context.Context, p Policy, fn Attempt[T]) (T, error) {
	var zero T

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		value, done, err := fn(ctx, attempt)
		var perm *permanentError
		if errors.As(err, &perm) {
			return zero, perm.err
		}
		if err != nil {
			if p.OnError != nil {
				p.OnError(attempt, err)
			}
		} else if done {
			return value, nil
		}

		if attempt == p.MaxAttempts {
			break
		}
		if err := sleep(ctx, p.Interval); err != nil {
			return zero, err
		}
	}

	return zero, ErrExhausted
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
