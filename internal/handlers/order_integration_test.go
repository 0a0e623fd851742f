//go:build integration

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/classiccarrry/classic-carrry-backend/internal/database"
	"github.com/classiccarrry/classic-carrry-backend/internal/models"
)

// Requires a replica-set MongoDB (transactions), e.g.
//
//	MONGO_URI=mongodb://localhost:27017/?replicaSet=rs0 go test -tags integration ./internal/handlers

type noopMailer struct{}

func (noopMailer) Send(_ context.Context, _, _, _ string) error { return nil }

func integrationDB(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}
	client, err := database.Connect(uri)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	db := client.Database("classiccarrry_test")
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}

func seedProduct(t *testing.T, db *mongo.Database, sku string, stock int) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	now := time.Now()
	_, err := db.Collection("products").InsertOne(ctx, models.Product{
		SKU:       sku,
		Name:      "Product " + sku,
		Price:     1000,
		MainImage: "https://example.com/" + sku + ".jpg",
		Stock:     stock,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("seed product %s: %v", sku, err)
	}
}

func productStock(t *testing.T, db *mongo.Database, sku string) int {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var product models.Product
	if err := db.Collection("products").FindOne(ctx, bson.M{"id": sku}).Decode(&product); err != nil {
		t.Fatalf("load product %s: %v", sku, err)
	}
	return product.Stock
}

func orderPayload(items []map[string]interface{}) []byte {
	body, _ := json.Marshal(map[string]interface{}{
		"customer": map[string]string{
			"email":     "buyer@example.com",
			"firstName": "Test",
			"lastName":  "Buyer",
			"phone":     "+92 300 0000000",
			"address":   "1 Main St",
			"city":      "Lahore",
			"province":  "Punjab",
		},
		"items": items,
		"pricing": map[string]float64{
			"subtotal":       2000,
			"deliveryCharge": 200,
			"total":          2200,
		},
	})
	return body
}

// A failing item must roll back every decrement made for earlier items in
// the same order.
func TestCreateOrderRollsBackStockOnFailure(t *testing.T) {
	db := integrationDB(t)
	seedProduct(t, db, "CAP-001", 10)
	seedProduct(t, db, "WAL-001", 1)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/orders", CreateOrder(db, noopMailer{}, "owner@example.com"))

	body := orderPayload([]map[string]interface{}{
		{"productId": "CAP-001", "name": "Cap", "price": 1000, "quantity": 2, "image": "https://example.com/cap.jpg"},
		{"productId": "WAL-001", "name": "Wallet", "price": 1000, "quantity": 5, "image": "https://example.com/wal.jpg"},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400: %s", w.Code, w.Body.String())
	}
	if stock := productStock(t, db, "CAP-001"); stock != 10 {
		t.Fatalf("CAP-001 stock = %d after failed order, want 10 (no partial decrement)", stock)
	}
	if stock := productStock(t, db, "WAL-001"); stock != 1 {
		t.Fatalf("WAL-001 stock = %d after failed order, want 1", stock)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	count, err := db.Collection("orders").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count orders: %v", err)
	}
	if count != 0 {
		t.Fatalf("got %d orders after failed create, want 0", count)
	}
}

func TestCreateOrderDecrementsStockOnSuccess(t *testing.T) {
	db := integrationDB(t)
	seedProduct(t, db, "CAP-002", 10)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/orders", CreateOrder(db, noopMailer{}, "owner@example.com"))

	body := orderPayload([]map[string]interface{}{
		{"productId": "CAP-002", "name": "Cap", "price": 1000, "quantity": 3, "image": "https://example.com/cap.jpg"},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("got status %d, want 201: %s", w.Code, w.Body.String())
	}
	if stock := productStock(t, db, "CAP-002"); stock != 7 {
		t.Fatalf("CAP-002 stock = %d after order of 3, want 7", stock)
	}
}
