package kds

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/readyvery/foodie-order/models"
	"github.com/readyvery/foodie-order/utils"
)

// Event types
const (
	EventOrderPaid = "order_paid"
)

const writeWait = 10 * time.Second

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// OrderPaid is the payload of an order_paid event.
type OrderPaid struct {
	OrderID     string          `json:"order_id"`
	OrderName   string          `json:"order_name"`
	StoreID     uint            `json:"store_id"`
	Inout       int64           `json:"inout"`
	TotalAmount int64           `json:"total_amount"`
	TotalLabel  string          `json:"total_label"`
	Method      string          `json:"method"`
	Progress    models.Progress `json:"progress"`
}

// Hub keeps the order board connections of every store.
type Hub struct {
	clients map[uint]map[*websocket.Conn]struct{} // store id -> conns
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[uint]map[*websocket.Conn]struct{})}
}

// Register adds conn to the board of storeID.
func (h *Hub) Register(storeID uint, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if h.clients[storeID] == nil {
		h.clients[storeID] = make(map[*websocket.Conn]struct{})
	}
	h.clients[storeID][conn] = struct{}{}
}

// Unregister removes conn and closes it.
func (h *Hub) Unregister(storeID uint, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.remove(storeID, conn)
}

// Clients returns how many boards of storeID are connected.
func (h *Hub) Clients(storeID uint) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients[storeID])
}

// NotifyOrderPaid sends an order_paid event to the order's store.
func (h *Hub) NotifyOrderPaid(order models.Order) {
	h.Broadcast(order.StoreID, Message{
		Event: EventOrderPaid,
		Data: OrderPaid{
			OrderID:     order.OrderID,
			OrderName:   order.OrderName,
			StoreID:     order.StoreID,
			Inout:       order.Inout,
			TotalAmount: order.TotalAmount,
			TotalLabel:  utils.FormatCurrencyKRW(order.TotalAmount),
			Method:      order.Method,
			Progress:    order.Progress,
		},
	})
}

// Broadcast writes msg to every board of storeID. Connections that fail
// to receive it are dropped.
func (h *Hub) Broadcast(storeID uint, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling message: %v", err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	utils.InfoLogger.Printf("Broadcasting %s to %d clients of store %d", msg.Event, len(h.clients[storeID]), storeID)

	for conn := range h.clients[storeID] {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Printf("Error sending message to store %d client: %v", storeID, err)
			h.remove(storeID, conn)
		}
	}
}

func (h *Hub) remove(storeID uint, conn *websocket.Conn) {
	conns, ok := h.clients[storeID]
	if !ok {
		return
	}
	if _, ok := conns[conn]; !ok {
		return
	}
	delete(conns, conn)
	if len(conns) == 0 {
		delete(h.clients, storeID)
	}
	conn.Close()
}
