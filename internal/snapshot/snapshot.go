// Package snapshot はストアの状態をバックアップ文書として書き出す経路を持つ。
// ストアのメソッドからは呼ばれず、変更を終えたハンドラが明示的に 1 回だけ
// 呼び出す（変更のたびに保存する設計は意図的に避けている）
package snapshot

import (
	"context"
	"errors"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/yadoya-dev/shift-board/backend/internal/backup"
	"github.com/yadoya-dev/shift-board/backend/internal/config"
	"github.com/yadoya-dev/shift-board/backend/internal/store"
)

type Publisher struct {
	cfg         *config.Config
	channel     *amqp.Channel
	redisClient *redis.Client
	staffStore  *store.StaffStore
	taskStore   *store.TaskStore
}

func NewPublisher(cfg *config.Config, ch *amqp.Channel, rdb *redis.Client, staffStore *store.StaffStore, taskStore *store.TaskStore) *Publisher {
	return &Publisher{
		cfg:         cfg,
		channel:     ch,
		redisClient: rdb,
		staffStore:  staffStore,
		taskStore:   taskStore,
	}
}

// Publish は現在の状態からバックアップ文書を生成し、Redis の自動保存キーと
// アーカイブ用キューの両方へ書き出す。書き出しの失敗はログに残すだけで、
// 元になったユーザー操作を失敗させることはない
func (p *Publisher) Publish() {
	document, err := backup.Export(p.staffStore.State(), p.taskStore.State())
	if err != nil {
		slog.Error("スナップショットの生成に失敗しました", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(p.cfg.Redis.OperationTimeout)*time.Second)
	defer cancel()

	if err := p.redisClient.Set(ctx, p.cfg.Snapshot.AutosaveKey, document, 0).Err(); err != nil {
		slog.Error("自動保存の書き込みに失敗しました", "error", err)
	}

	pubCtx, pubCancel := context.WithTimeout(context.Background(), time.Duration(p.cfg.RabbitMQ.PublishTimeout)*time.Second)
	defer pubCancel()

	if err := p.channel.PublishWithContext(
		pubCtx,
		"",
		p.cfg.Snapshot.QueueName,
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        document,
		},
	); err != nil {
		slog.Error("スナップショットのキュー送信に失敗しました", "error", err)
	}
}

// LoadAutosave は Redis の自動保存キーからバックアップ文書を読み出す。
// キーが存在しない場合は (nil, nil) を返す
func (p *Publisher) LoadAutosave(ctx context.Context) ([]byte, error) {
	document, err := p.redisClient.Get(ctx, p.cfg.Snapshot.AutosaveKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return document, nil
}
