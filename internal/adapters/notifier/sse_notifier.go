package notifier

import (
	"encoding/json"
	"fmt"
	"sync"

	"korx-catalog/internal/core/favorites"
	"korx-catalog/internal/core/port"
)

// EventFavoritesChanged - имя SSE-события со списком избранного.
const EventFavoritesChanged = "favorites"

// ClientChannel - канал одного SSE-подключения (одна вкладка).
type ClientChannel chan []byte

// FavoritesSource - набор избранного, на изменения которого подписываемся.
type FavoritesSource interface {
	Subscribe(fn favorites.Listener) (unsubscribe func())
}

// SSENotifier рассылает снимки избранного всем подключенным клиентам.
type SSENotifier struct {
	clients map[ClientChannel]struct{}
	mu      sync.RWMutex

	// eventChan - снимки от набора; слушатель набора не должен блокироваться
	eventChan   chan []int64
	done        chan struct{}
	closeOnce   sync.Once
	wg          sync.WaitGroup
	unsubscribe func()

	logger port.LoggerPort
}

// NewSSENotifier подписывается на source и запускает диспетчер.
func NewSSENotifier(source FavoritesSource, baseLogger port.LoggerPort) *SSENotifier {
	n := &SSENotifier{
		clients:   make(map[ClientChannel]struct{}),
		eventChan: make(chan []int64, 100),
		done:      make(chan struct{}),
		logger:    baseLogger.WithFields(port.Fields{"component": "SSENotifier"}),
	}
	n.unsubscribe = source.Subscribe(n.onChange)

	n.wg.Add(1)
	go n.dispatcher()
	return n
}

func (n *SSENotifier) onChange(ids []int64) {
	select {
	case n.eventChan <- ids:
	case <-n.done:
	default:
		n.logger.Warn("Notifier queue is full, favorites snapshot dropped.", port.Fields{"ids_count": len(ids)})
	}
}

func (n *SSENotifier) dispatcher() {
	defer n.wg.Done()
	n.logger.Debug("Notifier dispatcher started.", nil)

	for {
		select {
		case <-n.done:
			n.logger.Debug("Notifier dispatcher stopped.", nil)
			return
		case ids := <-n.eventChan:
			msg, err := FormatEvent(EventFavoritesChanged, ids)
			if err != nil {
				n.logger.Error("Failed to marshal event", err, nil)
				continue
			}
			n.broadcast(msg)
		}
	}
}

func (n *SSENotifier) broadcast(msg []byte) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.clients {
		select {
		case ch <- msg:
		default:
			n.logger.Warn("Client channel is full, skipping.", nil)
		}
	}
	n.logger.Debug("Event dispatched", port.Fields{"clients_count": len(n.clients)})
}

// FormatEvent кодирует data в JSON и оформляет как SSE-сообщение.
func FormatEvent(event string, data interface{}) ([]byte, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", event, payload)), nil
}

// AddClient регистрирует новое SSE-подключение.
func (n *SSENotifier) AddClient() ClientChannel {
	ch := make(ClientChannel, 16)
	n.mu.Lock()
	n.clients[ch] = struct{}{}
	total := len(n.clients)
	n.mu.Unlock()

	n.logger.Info("Client connected", port.Fields{"total_connections": total})
	return ch
}

// RemoveClient удаляет канал при отключении клиента.
func (n *SSENotifier) RemoveClient(ch ClientChannel) {
	n.mu.Lock()
	delete(n.clients, ch)
	remaining := len(n.clients)
	n.mu.Unlock()

	n.logger.Info("Client disconnected", port.Fields{"remaining_connections": remaining})
}

// Close отписывается от набора и останавливает диспетчер.
func (n *SSENotifier) Close() {
	n.closeOnce.Do(func() {
		n.unsubscribe()
		close(n.done)
		n.wg.Wait()
	})
}
