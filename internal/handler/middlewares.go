package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
)

type ResponseWriter struct {
	http.ResponseWriter
	StatusCode int
}

func (rw *ResponseWriter) WriteHeader(statusCode int) {
	rw.StatusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (h *Handler) logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &ResponseWriter{ResponseWriter: w}
		next.ServeHTTP(rw, r)
		duration := time.Since(start)
		slog.Info("リクエストを処理しました", "status", rw.StatusCode, "ip", r.RemoteAddr, "method", r.Method, "path", r.URL.Path, "duration", duration)
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				h.internalServerError(w, r, fmt.Errorf("panic: %v", err))
				stackTrace := string(debug.Stack())
				fmt.Print(stackTrace) // slog に流すと読みにくくなる
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// cookie から token を取り出す
		cookie, err := r.Cookie(tokenCookieName)
		if err != nil {
			switch {
			case errors.Is(err, http.ErrNoCookie):
				h.errorResponse(w, r, "ログインしていません")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		// token を検証する
		tokenString := cookie.Value
		claims := &jwt.RegisteredClaims{}
		_, err = jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(h.config.JWT.Secret), nil
		})
		if err != nil {
			h.errorResponse(w, r, "無効なトークンです")
			return
		}

		ctx := context.WithValue(r.Context(), SubCtxKey, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) staffInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		staffID := chi.URLParam(r, "id")

		staff, found := h.staffStore.GetStaffByID(staffID)
		if !found {
			h.errorResponse(w, r, "スタッフが見つかりません")
			return
		}

		ctx := context.WithValue(r.Context(), StaffCtx, staff)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) taskTemplate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		templateID := chi.URLParam(r, "id")

		template, found := h.taskStore.GetTaskTemplateByID(templateID)
		if !found {
			h.errorResponse(w, r, "タスクテンプレートが見つかりません")
			return
		}

		ctx := context.WithValue(r.Context(), TaskTemplateCtx, template)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) assignedTask(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		taskID := chi.URLParam(r, "id")

		task, found := h.taskStore.GetAssignedTaskByID(taskID)
		if !found {
			h.errorResponse(w, r, "タスクが見つかりません")
			return
		}

		ctx := context.WithValue(r.Context(), AssignedTaskCtx, task)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
