package tests

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/rl1809/order-service/internal/adapter/inventory"
	"github.com/rl1809/order-service/internal/adapter/messaging"
	"github.com/rl1809/order-service/internal/adapter/storage"
	"github.com/rl1809/order-service/internal/core/domain"
	"github.com/rl1809/order-service/internal/core/service"
)

type testEnv struct {
	mysql   *sql.DB
	repo    *storage.MySQLAdapter
	cleanup func()
}

func setupTestEnv(t *testing.T) *testEnv {
	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		mysqlDSN = "root:root@tcp(localhost:3306)/orders?parseTime=true"
	}

	db, err := sql.Open("mysql", mysqlDSN)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	ctx := context.Background()
	mustExec(t, db, ctx, `
		CREATE TABLE IF NOT EXISTS orders (
			order_number VARCHAR(36) PRIMARY KEY,
			created_at   DATETIME(6) NOT NULL
		)`)
	mustExec(t, db, ctx, `
		CREATE TABLE IF NOT EXISTS order_line_items (
			id           BIGINT AUTO_INCREMENT PRIMARY KEY,
			order_number VARCHAR(36) NOT NULL,
			sku_code     VARCHAR(255) NOT NULL,
			quantity     INT NOT NULL,
			price        DECIMAL(12,2) NOT NULL,
			KEY idx_order_number (order_number)
		)`)

	return &testEnv{
		mysql:   db,
		repo:    storage.NewMySQLAdapter(db),
		cleanup: func() { db.Close() },
	}
}

func mustExec(t *testing.T, db *sql.DB, ctx context.Context, query string) {
	t.Helper()
	if _, err := db.ExecContext(ctx, query); err != nil {
		t.Fatalf("exec failed: %v", err)
	}
}

// inventoryStub serves the batched availability lookup the way the real
// inventory service does.
func inventoryStub(facts []domain.InventoryFact) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		type fact struct {
			SKUCode string `json:"skuCode"`
			InStock bool   `json:"inStock"`
		}
		out := make([]fact, 0, len(facts))
		for _, f := range facts {
			out = append(out, fact{SKUCode: f.SKUCode, InStock: f.InStock})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(out)
	}))
}

type recordingProducer struct {
	messages []kafka.Message
}

func (p *recordingProducer) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	p.messages = append(p.messages, msgs...)
	return nil
}

func TestIntegration_FullPlacementFlow(t *testing.T) {
	env := setupTestEnv(t)
	defer env.cleanup()

	stub := inventoryStub([]domain.InventoryFact{{SKUCode: "iphone_15", InStock: true}})
	defer stub.Close()

	producer := &recordingProducer{}
	publisher := messaging.NewKafkaPublisher(zap.NewNop(), producer, "notificationTopic")
	client := inventory.NewHTTPClient(stub.URL, 2*time.Second)
	svc := service.NewOrderService(zap.NewNop(), client, env.repo, publisher, service.Options{})

	orderNumber, err := svc.PlaceOrder(context.Background(), service.PlaceOrderRequest{
		LineItems: []service.LineItemRequest{{SKUCode: "iphone_15", Quantity: 1, Price: 999.0}},
	})
	if err != nil {
		t.Fatalf("placement failed: %v", err)
	}

	ctx := context.Background()
	saved, err := env.repo.GetByOrderNumber(ctx, orderNumber)
	if err != nil {
		t.Fatalf("persisted order not found: %v", err)
	}
	if len(saved.LineItems) != 1 || saved.LineItems[0].SKUCode != "iphone_15" {
		t.Errorf("unexpected persisted line items: %+v", saved.LineItems)
	}

	if len(producer.messages) != 1 {
		t.Fatalf("expected 1 published message, got %d", len(producer.messages))
	}
	if string(producer.messages[0].Key) != orderNumber {
		t.Errorf("event key %q does not match persisted order %q", producer.messages[0].Key, orderNumber)
	}

	env.mysql.ExecContext(ctx, `DELETE FROM order_line_items WHERE order_number = ?`, orderNumber)
	env.mysql.ExecContext(ctx, `DELETE FROM orders WHERE order_number = ?`, orderNumber)
}

func TestIntegration_RejectionWritesNothing(t *testing.T) {
	env := setupTestEnv(t)
	defer env.cleanup()

	stub := inventoryStub([]domain.InventoryFact{{SKUCode: "sold_out_item", InStock: false}})
	defer stub.Close()

	producer := &recordingProducer{}
	publisher := messaging.NewKafkaPublisher(zap.NewNop(), producer, "notificationTopic")
	client := inventory.NewHTTPClient(stub.URL, 2*time.Second)
	svc := service.NewOrderService(zap.NewNop(), client, env.repo, publisher, service.Options{})

	ctx := context.Background()
	var before int
	env.mysql.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&before)

	_, err := svc.PlaceOrder(ctx, service.PlaceOrderRequest{
		LineItems: []service.LineItemRequest{{SKUCode: "sold_out_item", Quantity: 1, Price: 10.0}},
	})
	var rejection *service.OutOfStockError
	if !errors.As(err, &rejection) {
		t.Fatalf("expected OutOfStockError, got: %v", err)
	}

	var after int
	env.mysql.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&after)
	if after != before {
		t.Errorf("rejection persisted an order: before=%d after=%d", before, after)
	}
	if len(producer.messages) != 0 {
		t.Errorf("rejection published %d events", len(producer.messages))
	}
}

func TestIntegration_InventoryDownNeverPersists(t *testing.T) {
	env := setupTestEnv(t)
	defer env.cleanup()

	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	stub.Close() // lookup target is unreachable

	producer := &recordingProducer{}
	publisher := messaging.NewKafkaPublisher(zap.NewNop(), producer, "notificationTopic")
	client := inventory.NewHTTPClient(stub.URL, 500*time.Millisecond)
	svc := service.NewOrderService(zap.NewNop(), client, env.repo, publisher, service.Options{})

	ctx := context.Background()
	var before int
	env.mysql.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&before)

	_, err := svc.PlaceOrder(ctx, service.PlaceOrderRequest{
		LineItems: []service.LineItemRequest{{SKUCode: "anything", Quantity: 1, Price: 1.0}},
	})
	if !errors.Is(err, service.ErrInventoryUnavailable) {
		t.Fatalf("expected ErrInventoryUnavailable, got: %v", err)
	}

	var after int
	env.mysql.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&after)
	if after != before {
		t.Errorf("inventory failure persisted an order: before=%d after=%d", before, after)
	}
}

func TestIntegration_EventDeliveredToKafka(t *testing.T) {
	kafkaAddr := os.Getenv("KAFKA_ADDR")
	if kafkaAddr == "" {
		kafkaAddr = "localhost:9092"
	}

	conn, err := kafka.Dial("tcp", kafkaAddr)
	if err != nil {
		t.Skipf("Kafka not available: %v", err)
	}
	defer conn.Close()

	topic := "notification-test-" + uuid.NewString()
	if err := conn.CreateTopics(kafka.TopicConfig{Topic: topic, NumPartitions: 1, ReplicationFactor: 1}); err != nil {
		t.Skipf("cannot create topic: %v", err)
	}

	writer := messaging.NewWriter([]string{kafkaAddr})
	writer.AllowAutoTopicCreation = true
	defer writer.Close()

	publisher := messaging.NewKafkaPublisher(zap.NewNop(), writer, topic)
	orderNumber := uuid.NewString()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := publisher.Publish(ctx, domain.OrderPlacedEvent{OrderNumber: orderNumber}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:   []string{kafkaAddr},
		Topic:     topic,
		Partition: 0,
		MaxWait:   time.Second,
	})
	defer reader.Close()

	msg, err := reader.ReadMessage(ctx)
	if err != nil {
		t.Fatalf("read message failed: %v", err)
	}
	if string(msg.Key) != orderNumber {
		t.Errorf("expected key %q, got %q", orderNumber, msg.Key)
	}

	var event domain.OrderPlacedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if event.OrderNumber != orderNumber {
		t.Errorf("expected order number %q, got %q", orderNumber, event.OrderNumber)
	}
}
