package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/kirillkom/evidence-organizer/internal/core/domain"
	"github.com/kirillkom/evidence-organizer/internal/infrastructure/resilience"
)

const completionQueueGroup = "evidence-organizer"

// AnalysisQueue carries analysis requests to the extraction pipeline and completion
// events back to the organizer.
type AnalysisQueue struct {
	conn             *nats.Conn
	requestSubject   string
	completedSubject string
	executor         *resilience.Executor
	logger           *slog.Logger
}

type Options struct {
	ConnectTimeout       time.Duration
	ReconnectWait        time.Duration
	MaxReconnects        int
	RetryOnFailedConnect *bool
	ResilienceExecutor   *resilience.Executor
	Logger               *slog.Logger
}

func New(url, requestSubject, completedSubject string) (*AnalysisQueue, error) {
	return NewWithOptions(url, requestSubject, completedSubject, Options{})
}

func NewWithOptions(url, requestSubject, completedSubject string, options Options) (*AnalysisQueue, error) {
	connectTimeout := options.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 2 * time.Second
	}
	reconnectWait := options.ReconnectWait
	if reconnectWait <= 0 {
		reconnectWait = 2 * time.Second
	}
	maxReconnects := options.MaxReconnects
	if maxReconnects <= 0 {
		maxReconnects = 60
	}
	retryOnFailedConnect := true
	if options.RetryOnFailedConnect != nil {
		retryOnFailedConnect = *options.RetryOnFailedConnect
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := nats.Connect(
		url,
		nats.Name("evidence-organizer"),
		nats.Timeout(connectTimeout),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(maxReconnects),
		nats.RetryOnFailedConnect(retryOnFailedConnect),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats_disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats_reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &AnalysisQueue{
		conn:             conn,
		requestSubject:   requestSubject,
		completedSubject: completedSubject,
		executor:         options.ResilienceExecutor,
		logger:           logger,
	}, nil
}

func (q *AnalysisQueue) Close() {
	if q.conn != nil {
		q.conn.Close()
	}
}

func (q *AnalysisQueue) PublishAnalysisRequested(ctx context.Context, req domain.AnalysisRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal analysis request: %w", err)
	}

	call := func(_ context.Context) error {
		if err := q.conn.Publish(q.requestSubject, payload); err != nil {
			return fmt.Errorf("nats publish: %w", err)
		}
		return nil
	}

	if q.executor != nil {
		err = q.executor.Execute(ctx, "nats.publish", call, classifyNATSError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return wrapTemporaryIfNeeded(err)
	}
	return nil
}

// SubscribeAnalysisCompleted blocks until ctx is done, then drains the subscription.
// Malformed payloads are logged and skipped.
func (q *AnalysisQueue) SubscribeAnalysisCompleted(ctx context.Context, handler func(context.Context, domain.AnalysisCompletion) error) error {
	sub, err := q.conn.QueueSubscribe(q.completedSubject, completionQueueGroup, func(msg *nats.Msg) {
		if errors.Is(ctx.Err(), context.Canceled) {
			return
		}

		completion, err := decodeCompletion(msg.Data)
		if err != nil {
			q.logger.Warn("analysis_completion_malformed", "subject", msg.Subject, "error", err)
			return
		}

		handlerCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		if err := handler(handlerCtx, completion); err != nil {
			q.logger.Error("analysis_completion_failed", "case_id", completion.CaseID, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("nats subscribe: %w", err)
	}

	if err := q.conn.Flush(); err != nil {
		return fmt.Errorf("nats flush: %w", err)
	}

	<-ctx.Done()
	if err := sub.Drain(); err != nil {
		return fmt.Errorf("nats drain subscription: %w", err)
	}
	if err := q.conn.FlushTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("nats flush after drain: %w", err)
	}
	return nil
}

func decodeCompletion(data []byte) (domain.AnalysisCompletion, error) {
	var completion domain.AnalysisCompletion
	if err := json.Unmarshal(data, &completion); err != nil {
		return domain.AnalysisCompletion{}, fmt.Errorf("decode analysis completion: %w", err)
	}
	if completion.CaseID == "" {
		return domain.AnalysisCompletion{}, domain.WrapError(domain.ErrInvalidInput, "decode analysis completion", errors.New("case_id is required"))
	}
	return completion, nil
}
