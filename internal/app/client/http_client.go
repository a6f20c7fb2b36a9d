package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"studentadmin/internal/app/client/config"
	"studentadmin/internal/domain/student"
)

const userAgent = "studentadmin-client/1.0"

// Transport - удаленные операции над списком студентов. Токен передается в каждый вызов.
type Transport interface {
	ListStudents(ctx context.Context, token string) ([]student.Student, error)
	CreateStudent(ctx context.Context, token string, d student.Draft) error
	UpdateStudent(ctx context.Context, token string, id int, s student.Student) error
	DeleteStudent(ctx context.Context, token string, id int) error
	ExportStudents(ctx context.Context, token string) ([]student.Student, error)
}

type httpClient struct {
	client  *http.Client
	log     *slog.Logger
	baseURL string
}

func NewHTTPClient(cfg *config.Config, log *slog.Logger) *httpClient {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			MaxIdleConnsPerHost: 10,
		},
	}

	return &httpClient{
		client:  client,
		log:     log.With(slog.String("component", "http_client")),
		baseURL: cfg.ServerAddress,
	}
}

// LoginRequest - тело POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login аутентифицирует пользователя и возвращает токен
func (h *httpClient) Login(ctx context.Context, email, password string) (string, error) {
	resp, err := h.doRequest(ctx, http.MethodPost, "/auth/login", "", LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return "", err
	}

	var loginResp struct {
		Token string `json:"token"`
	}
	if err := h.parseResponse(resp, &loginResp); err != nil {
		return "", err
	}

	if loginResp.Token == "" {
		return "", &RemoteError{StatusCode: resp.StatusCode, Message: "в ответе нет токена"}
	}

	return loginResp.Token, nil
}

// HealthCheck проверяет доступность сервера
func (h *httpClient) HealthCheck(ctx context.Context) error {
	resp, err := h.doRequest(ctx, http.MethodGet, "/health", "", nil)
	if err != nil {
		return err
	}

	return h.parseResponse(resp, nil)
}

func (h *httpClient) ListStudents(ctx context.Context, token string) ([]student.Student, error) {
	return h.getStudents(ctx, "/students", token)
}

func (h *httpClient) ExportStudents(ctx context.Context, token string) ([]student.Student, error) {
	return h.getStudents(ctx, "/students/export", token)
}

// CreateStudent отправляет черновик; созданная запись в ответе не нужна, список перечитывается целиком
func (h *httpClient) CreateStudent(ctx context.Context, token string, d student.Draft) error {
	resp, err := h.doRequest(ctx, http.MethodPost, "/students", token, d)
	if err != nil {
		return err
	}

	return h.parseResponse(resp, nil)
}

func (h *httpClient) UpdateStudent(ctx context.Context, token string, id int, s student.Student) error {
	resp, err := h.doRequest(ctx, http.MethodPut, "/students/update/"+strconv.Itoa(id), token, s)
	if err != nil {
		return err
	}

	return h.parseResponse(resp, nil)
}

func (h *httpClient) DeleteStudent(ctx context.Context, token string, id int) error {
	resp, err := h.doRequest(ctx, http.MethodDelete, "/students/"+strconv.Itoa(id), token, nil)
	if err != nil {
		return err
	}

	return h.parseResponse(resp, nil)
}

func (h *httpClient) getStudents(ctx context.Context, path, token string) ([]student.Student, error) {
	resp, err := h.doRequest(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return nil, err
	}

	var list []student.Student
	if err := h.parseResponse(resp, &list); err != nil {
		return nil, err
	}

	if list == nil {
		list = []student.Student{}
	}

	return list, nil
}

func (h *httpClient) doRequest(ctx context.Context, method, path, token string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("ошибка маршалинга тела запроса: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	h.log.Debug("Отправка запроса",
		slog.String("method", method),
		slog.String("url", req.URL.String()),
		slog.String("request_id", requestID),
	)

	resp, err := h.client.Do(req)
	if err != nil {
		h.log.Warn("Ошибка выполнения запроса",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	return resp, nil
}

func (h *httpClient) parseResponse(resp *http.Response, result interface{}) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: ошибка чтения ответа: %w", ErrTransport, err)
	}

	h.log.Debug("Получен ответ",
		slog.Int("status", resp.StatusCode),
		slog.Int("size", len(body)),
	)

	if resp.StatusCode >= http.StatusBadRequest {
		remoteErr := &RemoteError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body),
		}
		h.log.Warn("Сервер отклонил запрос",
			slog.String("method", resp.Request.Method),
			slog.String("path", resp.Request.URL.Path),
			slog.Int("status", resp.StatusCode),
			slog.String("message", remoteErr.Message),
		)

		if resp.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("%w: %w", ErrUnauthorized, remoteErr)
		}
		return remoteErr
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("ошибка парсинга ответа: %w", err)
		}
	}

	return nil
}

// errorMessage достает текст ошибки из тела ответа. Поддерживаются {"error"}, {"message"}
// и формат huma {"title", "detail"}.
func errorMessage(body []byte) string {
	var errResp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Title   string `json:"title"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(body, &errResp); err != nil {
		return ""
	}

	for _, msg := range []string{errResp.Error, errResp.Message, errResp.Detail, errResp.Title} {
		if msg != "" {
			return msg
		}
	}

	return ""
}

var _ Transport = (*httpClient)(nil)

// IsTransport сообщает, что запрос не дошел до сервера
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}
