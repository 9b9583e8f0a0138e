package events

import (
	"context"
	"sync"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Handler обработчик события
type Handler func(ctx context.Context, event interface{})

// Dispatcher асинхронный in-process диспетчер доменных событий
//
// Publish не блокирует вызывающего и никогда не возвращает ошибку:
// побочные эффекты (почта, уведомления) не должны влиять на результат
// уже закоммиченного бронирования. Ошибки обработчиков только логируются.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers []Handler
	wg       sync.WaitGroup
	logger   Logger
}

// NewDispatcher создает новый диспетчер событий
func NewDispatcher(logger Logger) *Dispatcher {
	return &Dispatcher{logger: logger}
}

// Subscribe регистрирует обработчик для всех событий
// Обработчик сам фильтрует интересующие его типы через type switch
func (d *Dispatcher) Subscribe(h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = append(d.handlers, h)
}

// Publish рассылает событие всем подписчикам в отдельных горутинах
// Контекст запроса не передается: обработка переживает HTTP запрос
func (d *Dispatcher) Publish(ctx context.Context, event interface{}) {
	d.mu.RLock()
	handlers := make([]Handler, len(d.handlers))
	copy(handlers, d.handlers)
	d.mu.RUnlock()

	for _, h := range handlers {
		d.wg.Add(1)
		go func(h Handler) {
			defer d.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					d.logger.Error("events: handler panic: %v", r)
				}
			}()
			h(context.WithoutCancel(ctx), event)
		}(h)
	}
}

// Close дожидается завершения всех запущенных обработчиков
// Вызывается при graceful shutdown
func (d *Dispatcher) Close() {
	d.wg.Wait()
}
