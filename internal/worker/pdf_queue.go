package worker

import (
	"context"
	"sync"
	"time"

	"github.com/freightworks/quotation-service/internal/models"
	"github.com/freightworks/quotation-service/internal/repository"

	"go.uber.org/zap"
)

// Renderer отрисовывает PDF котировки и отдает относительный URL артефакта.
type Renderer interface {
	Render(ctx context.Context, quote *models.Quote, user *models.User) (string, error)
}

// PdfQueue - внутрипроцессная очередь фоновой генерации PDF. Постановка
// задачи неблокирующая; любые сбои обработки логируются и не всплывают к
// вызывающему - следующая попытка скачивания перегенерирует файл на месте.
// Семантики отмены нет: принятая задача выполняется до конца или падает.
type PdfQueue struct {
	jobs          chan string
	quotes        repository.QuoteRepository
	users         repository.UserRepository
	renderer      Renderer
	renderTimeout time.Duration
	logger        *zap.Logger

	wg        sync.WaitGroup
	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
}

// NewPdfQueue создаёт очередь с заданной ёмкостью.
func NewPdfQueue(
	size int,
	quotes repository.QuoteRepository,
	users repository.UserRepository,
	renderer Renderer,
	renderTimeout time.Duration,
	logger *zap.Logger,
) *PdfQueue {
	return &PdfQueue{
		jobs:          make(chan string, size),
		quotes:        quotes,
		users:         users,
		renderer:      renderer,
		renderTimeout: renderTimeout,
		logger:        logger,
	}
}

// Start запускает воркеров, разбирающих очередь.
func (q *PdfQueue) Start(workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go func() {
			defer q.wg.Done()
			for quoteId := range q.jobs {
				q.process(quoteId)
			}
		}()
	}
}

// Enqueue ставит генерацию PDF для котировки. Возвращает false, если
// очередь переполнена или закрыта.
func (q *PdfQueue) Enqueue(quoteId string) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return false
	}

	select {
	case q.jobs <- quoteId:
		return true
	default:
		return false
	}
}

// Close прекращает прием задач и дожидается завершения уже принятых.
func (q *PdfQueue) Close() {
	q.closeOnce.Do(func() {
		q.mu.Lock()
		q.closed = true
		q.mu.Unlock()
		close(q.jobs)
	})
	q.wg.Wait()
}

func (q *PdfQueue) process(quoteId string) {
	ctx, cancel := context.WithTimeout(context.Background(), q.renderTimeout)
	defer cancel()

	quote, err := q.quotes.GetQuoteByID(ctx, quoteId)
	if err != nil {
		q.logger.Error("pdf worker failed to load quote", zap.String("quote_id", quoteId), zap.Error(err))
		return
	}
	if quote == nil {
		// Котировку успели удалить - задача снимается молча.
		return
	}

	var user *models.User
	if quote.UserID != nil {
		if user, err = q.users.GetUserByID(ctx, *quote.UserID); err != nil {
			q.logger.Error("pdf worker failed to load quote owner", zap.String("quote_id", quoteId), zap.Error(err))
			return
		}
	}

	pdfURL, err := q.renderer.Render(ctx, quote, user)
	if err != nil {
		q.logger.Error("background pdf generation failed", zap.String("quote_id", quoteId), zap.Error(err))
		return
	}

	if err := q.quotes.UpdatePdfURL(ctx, quoteId, pdfURL); err != nil {
		q.logger.Error("pdf worker failed to store pdf url", zap.String("quote_id", quoteId), zap.Error(err))
		return
	}
	q.logger.Info("pdf generated", zap.String("quote_id", quoteId), zap.String("pdf_url", pdfURL))
}
