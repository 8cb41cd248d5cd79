// Package queue runs blog generation in the background, on asynq when Redis is
// available and in-process otherwise.
package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/entity"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/value"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/application/modules"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/contextx"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/logx"
)

var (
	logger = contextx.LoggerFromContextOrDefault          //nolint:gochecknoglobals
	json   = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals
)

const (
	TypeBlogGenerate = "blog:generate"
	QueueBlog        = "blog"

	blogMaxRetry  = 2
	blogUnique    = 24 * time.Hour
	inlineTimeout = 3 * time.Minute
)

type BlogGenerator interface {
	Generate(ctx context.Context, ticker value.Ticker, report entity.Report) (entity.Post, bool, error)
}

type blogPayload struct {
	Ticker value.Ticker  `json:"ticker"`
	Report entity.Report `json:"report"`
}

func NewBlogTask(ticker value.Ticker, report entity.Report) (*asynq.Task, error) {
	payload, err := json.Marshal(blogPayload{Ticker: ticker, Report: report})
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return asynq.NewTask(TypeBlogGenerate, payload,
		asynq.Queue(QueueBlog),
		asynq.MaxRetry(blogMaxRetry),
		asynq.Unique(blogUnique),
		asynq.TaskID(TypeBlogGenerate+":"+ticker.String()+":"+time.Now().UTC().Format(time.DateOnly)),
	), nil
}

// Asynq enqueues blog generation on Redis. One task per ticker per day.
type Asynq struct {
	client *asynq.Client
}

func NewAsynq(opt asynq.RedisConnOpt) *Asynq {
	return &Asynq{client: asynq.NewClient(opt)}
}

func (q *Asynq) EnqueueBlog(ctx context.Context, ticker value.Ticker, report entity.Report) error {
	task, err := NewBlogTask(ticker, report)
	if err != nil {
		return err
	}

	info, err := q.client.EnqueueContext(ctx, task)
	if err != nil {
		if errors.Is(err, asynq.ErrDuplicateTask) || errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}

		return fmt.Errorf("client.EnqueueContext: %w", err)
	}

	logger(ctx).Debug("blog task enqueued", slog.String(logx.FieldTaskID, info.ID), slog.String(logx.FieldTicker, ticker.String()))

	return nil
}

func (q *Asynq) Close() error {
	return q.client.Close() //nolint:wrapcheck
}

// BlogHandler consumes blog:generate tasks.
func BlogHandler(gen BlogGenerator) modules.AsynqHandler {
	return modules.AsynqHandler{
		Pattern: TypeBlogGenerate,
		Handle: func(ctx context.Context, task *asynq.Task) error {
			var p blogPayload
			if err := json.Unmarshal(task.Payload(), &p); err != nil {
				return fmt.Errorf("json.Unmarshal: %w: %w", err, asynq.SkipRetry)
			}

			ctx = contextx.WithLogger(ctx, logger(ctx).With(slog.String(logx.FieldTicker, p.Ticker.String())))

			if _, _, err := gen.Generate(ctx, p.Ticker, p.Report); err != nil {
				return fmt.Errorf("gen.Generate: %w", err)
			}

			return nil
		},
	}
}

// Inline runs generation on a goroutine per request. It is the fallback when
// no Redis is configured; tickers already in flight are skipped.
type Inline struct {
	gen      BlogGenerator
	wg       sync.WaitGroup
	mu       sync.Mutex
	inflight map[value.Ticker]struct{}
}

func NewInline(gen BlogGenerator) *Inline {
	return &Inline{gen: gen, inflight: make(map[value.Ticker]struct{})}
}

func (q *Inline) EnqueueBlog(ctx context.Context, ticker value.Ticker, report entity.Report) error {
	q.mu.Lock()
	if _, ok := q.inflight[ticker]; ok {
		q.mu.Unlock()
		return nil
	}

	q.inflight[ticker] = struct{}{}
	q.mu.Unlock()

	q.wg.Add(1)

	go func() {
		defer q.wg.Done()
		defer func() {
			q.mu.Lock()
			delete(q.inflight, ticker)
			q.mu.Unlock()
		}()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), inlineTimeout)
		defer cancel()

		if _, _, err := q.gen.Generate(ctx, ticker, report); err != nil {
			logger(ctx).Error("blog generation failed", slog.String(logx.FieldTicker, ticker.String()), logx.Error(err))
		}
	}()

	return nil
}

// Wait blocks until every started generation has returned.
func (q *Inline) Wait() {
	q.wg.Wait()
}
