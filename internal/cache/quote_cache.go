package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/freightworks/quotation-service/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// QuoteCache - read-through кэш котировок в redis. Отказ кэша никогда не
// ломает запрос: промах или ошибка просто ведут к чтению из базы.
type QuoteCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewQuoteCache создаёт новый экземпляр QuoteCache и проверяет подключение.
func NewQuoteCache(addr, password string, db int, ttl time.Duration, logger *zap.Logger) (*QuoteCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	logger.Info("redis connected", zap.String("addr", addr))

	return &QuoteCache{client: client, ttl: ttl, logger: logger}, nil
}

// NewQuoteCacheFromClient создаёт QuoteCache поверх готового клиента.
func NewQuoteCacheFromClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *QuoteCache {
	return &QuoteCache{client: client, ttl: ttl, logger: logger}
}

func cacheKey(quoteId string) string {
	return fmt.Sprintf("quote:v1:%s", quoteId)
}

// GetQuote возвращает закэшированную котировку; второй результат - признак
// попадания.
func (c *QuoteCache) GetQuote(ctx context.Context, quoteId string) (*models.Quote, bool) {
	data, err := c.client.Get(ctx, cacheKey(quoteId)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("quote cache get failed", zap.String("quote_id", quoteId), zap.Error(err))
		}
		return nil, false
	}

	var quote models.Quote
	if err := json.Unmarshal(data, &quote); err != nil {
		c.logger.Warn("quote cache entry corrupted", zap.String("quote_id", quoteId), zap.Error(err))
		return nil, false
	}
	return &quote, true
}

// SetQuote кладет котировку в кэш с TTL.
func (c *QuoteCache) SetQuote(ctx context.Context, quote *models.Quote) {
	data, err := json.Marshal(quote)
	if err != nil {
		c.logger.Warn("quote cache marshal failed", zap.String("quote_id", quote.ID), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, cacheKey(quote.ID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("quote cache set failed", zap.String("quote_id", quote.ID), zap.Error(err))
	}
}

// InvalidateQuote выбрасывает котировку из кэша после изменения или удаления.
func (c *QuoteCache) InvalidateQuote(ctx context.Context, quoteId string) {
	if err := c.client.Del(ctx, cacheKey(quoteId)).Err(); err != nil {
		c.logger.Warn("quote cache invalidate failed", zap.String("quote_id", quoteId), zap.Error(err))
	}
}

// Close закрывает подключение к redis.
func (c *QuoteCache) Close() error {
	return c.client.Close()
}
