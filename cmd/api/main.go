package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/yadoya-dev/shift-board/backend/internal/backup"
	"github.com/yadoya-dev/shift-board/backend/internal/config"
	"github.com/yadoya-dev/shift-board/backend/internal/handler"
	"github.com/yadoya-dev/shift-board/backend/internal/repository"
	"github.com/yadoya-dev/shift-board/backend/internal/snapshot"
	"github.com/yadoya-dev/shift-board/backend/internal/store"

	_ "github.com/jackc/pgx/v5/stdlib"
)

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
		logger.Error("設定を読み込めません", "error", err)
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

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open は接続プールを作るだけで実際には接続しないため、明示的に ping する
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("データベースに接続できません", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	/**********************************************
	 * rabbitmq への接続
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("rabbitmq に接続できません", "error", err)
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("チャネルを作成できません", "error", err)
		return
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		cfg.Snapshot.QueueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("キューを宣言できません", "error", err)
		return
	}

	/**********************************************
	 * redis への接続
	 **********************************************/
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       0,
	})

	/**********************************************
	 * ストアの作成と状態の復元
	 **********************************************/
	staffStore := store.NewStaffStore()
	taskStore := store.NewTaskStore()
	snapshots := snapshot.NewPublisher(cfg, ch, rdb, staffStore, taskStore)

	if err := restoreState(cfg, snapshots, repo, staffStore, taskStore); err != nil {
		logger.Error("状態の復元に失敗しました", "error", err)
		return
	}

	/**********************************************
	 * handler の作成
	 **********************************************/
	handler, err := handler.NewHandler(cfg, staffStore, taskStore, snapshots, repo)
	if err != nil {
		logger.Error("handler を作成できません", "error", err)
		return
	}
	handler.RegisterRoutes()

	/**********************************************
	 * HTTP サーバーの起動
	 **********************************************/
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      handler.Mux,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("サーバーを起動しています...", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("サーバーを起動できません", slog.String("error", err.Error()))
			return
		}
	}()

	<-quit
	logger.Info("サーバーを停止しています...")

	ctx, cancel = context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("サーバーの停止に失敗しました", slog.String("error", err.Error()))
	}
	logger.Info("サーバーを停止しました")
}

// restoreState は redis の自動保存、なければ最新のアーカイブからストアの
// 状態を復元する。どちらも存在しない場合は空の状態のまま起動する
func restoreState(cfg *config.Config, snapshots *snapshot.Publisher, repo *repository.Repository, staffStore *store.StaffStore, taskStore *store.TaskStore) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Redis.OperationTimeout)*time.Second)
	defer cancel()

	document, err := snapshots.LoadAutosave(ctx)
	if err != nil {
		return err
	}

	if document == nil {
		document, err = repo.GetLatestSnapshot()
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				slog.Info("復元できる状態がないため、空の状態で起動します")
				return nil
			}
			return err
		}
		slog.Info("アーカイブ済みスナップショットから状態を復元します")
	} else {
		slog.Info("自動保存から状態を復元します")
	}

	doc, err := backup.Parse(document)
	if err != nil {
		return err
	}

	staffStore.ReplaceAllStaffAndHolidays(doc.StaffModule)
	taskStore.ReplaceAllTaskData(doc.TaskModule)

	return nil
}
