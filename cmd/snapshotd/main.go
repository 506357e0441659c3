package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wneessen/go-mail"
	"github.com/yadoya-dev/shift-board/backend/internal/backup"
	"github.com/yadoya-dev/shift-board/backend/internal/config"
	"github.com/yadoya-dev/shift-board/backend/internal/repository"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// snapshotd はキューに流れてくるバックアップ文書をアーカイブする worker。
// EMAIL_BACKUP_TO が設定されていれば、アーカイブした文書をメールでも届ける
func main() {
	/**********************************************
	 * logger の作成
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * 設定の読み込み
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("設定を読み込めません", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * データベース（スナップショットアーカイブ）への接続
	 **********************************************/
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("データベース接続プールを作成できません", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	pingCtx, pingCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer pingCancel()

	if err := dbpool.PingContext(pingCtx); err != nil {
		logger.Error("データベースに接続できません", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	/**********************************************
	 * メールクライアントの作成（バックアップ送付が有効な場合のみ）
	 **********************************************/
	var mailClient *mail.Client
	if cfg.Email.BackupTo != "" {
		mailClient, err = mail.NewClient(cfg.Email.SMTP.Host,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithSSL(),
			mail.WithPort(cfg.Email.SMTP.Port),
			mail.WithUsername(cfg.Email.SMTP.Username),
			mail.WithPassword(cfg.Email.SMTP.Password),
		)
		if err != nil {
			logger.Error("メールクライアントを作成できません", slog.String("error", err.Error()))
			return
		}
		defer mailClient.Close()

		dialCtx, dialCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
		defer dialCancel()
		if err := mailClient.DialWithContext(dialCtx); err != nil {
			logger.Error("メールサーバーに接続できません", slog.String("error", err.Error()))
			return
		}
	}

	/**********************************************
	 * RabbitMQ への接続
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("RabbitMQ に接続できません", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("チャネルを作成できません", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		cfg.Snapshot.QueueName, // キュー名
		true,                   // 永続化する
		false,                  // 消費者がいなくても自動削除しない
		false,                  // 排他キューにしない
		false,                  // RabbitMQ の応答を待つ
		nil,                    // 追加引数
	)
	if err != nil {
		logger.Error("キューを宣言できません", slog.String("error", err.Error()))
		return
	}

	// CTRL+C を監視する
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	msgs, err := ch.Consume(
		q.Name, // キュー
		"",     // 消費者タグは RabbitMQ に採番させる
		false,  // 自動 ack しない
		false,  // 排他にしない
		false,  // no-local は RabbitMQ では未サポートのため false
		false,  // RabbitMQ の応答を待つ
		nil,    // 追加引数
	)
	if err != nil {
		logger.Error("メッセージを消費できません", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// goroutine を終了させるためのコンテキスト
	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				// 文書そのものをアーカイブするが、メタ情報を取り出すために
				// ここでも一度パースして形式を確かめる
				doc, err := backup.Parse(msg.Body)
				if err != nil {
					logger.Error("バックアップ文書の形式が不正です", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				takenAt, err := time.Parse(time.RFC3339, doc.Timestamp)
				if err != nil {
					takenAt = time.Now()
				}

				id, err := repo.SaveSnapshot(msg.Body, doc.Version, takenAt)
				if err != nil {
					logger.Error("スナップショットのアーカイブに失敗しました", slog.String("error", err.Error()))
					_ = msg.Nack(false, true) // メッセージを再度キューに入れる
					continue
				}
				logger.Info("スナップショットをアーカイブしました", slog.Int64("id", id), slog.String("takenAt", doc.Timestamp))

				if mailClient != nil {
					if err := sendBackupMail(cfg, mailClient, msg.Body, takenAt); err != nil {
						// メール送付は補助機能なのでアーカイブ自体は成功扱いにする
						logger.Error("バックアップメールの送信に失敗しました", slog.String("error", err.Error()))
					}
				}

				_ = msg.Ack(false)
			}
		}
	}()

	// CTRL+C 待ち
	logger.Info("メッセージを待っています...（CTRL+C で終了）")
	<-sigChan

	// 穏やかに終了する
	slog.Info("snapshotd を停止しています...")
	cancel()
	wg.Wait() // すべての goroutine の終了を待つ
	slog.Info("snapshotd を停止しました")
}

func sendBackupMail(cfg *config.Config, client *mail.Client, document []byte, takenAt time.Time) error {
	m := mail.NewMsg()
	if err := m.From(cfg.Email.SMTP.Username); err != nil {
		return err
	}
	if err := m.To(cfg.Email.BackupTo); err != nil {
		return err
	}

	m.Subject(fmt.Sprintf("シフトボード - バックアップ (%s)", takenAt.Format("2006-01-02 15:04")))
	m.SetBodyString(mail.TypeTextPlain, "シフトボードの最新バックアップを添付します。")
	if err := m.AttachReader(fmt.Sprintf("shift_board_backup_%s.json", takenAt.Format("20060102_150405")), bytes.NewReader(document)); err != nil {
		return err
	}

	return client.DialAndSend(m)
}
