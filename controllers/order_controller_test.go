package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pastelaria-dev/pastelaria-kiosk-api/models"
)

func orderRequestBody() map[string]interface{} {
	return map[string]interface{}{
		"userId": "u1",
		"items": []map[string]interface{}{
			{"productId": "pastel-carne", "name": "Pastel de Carne", "price": 12.5, "quantity": 2},
			{"productId": "coca-cola", "name": "Coca-Cola", "price": 6, "quantity": 1},
		},
	}
}

func TestCreateOrder(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		expectedStatus int
		checkResponse  func(t *testing.T, response map[string]interface{})
	}{
		{
			name:           "Successfully submit an order",
			requestBody:    orderRequestBody(),
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				assert.Equal(t, 31.0, response["total"], "total is recomputed server-side")
				assert.Equal(t, models.StatusActive, response["status"])
				assert.Equal(t, "u1", response["userId"])
				assert.Equal(t, "Maria Silva", response["userName"])
				assert.NotEmpty(t, response["id"])
				assert.NotEmpty(t, response["createdAt"])
				items := response["items"].([]interface{})
				assert.Len(t, items, 2)
			},
		},
		{
			name: "Fail with missing userId",
			requestBody: map[string]interface{}{
				"items": []map[string]interface{}{
					{"productId": "p1", "name": "Pastel", "price": 10, "quantity": 1},
				},
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Fail with empty items",
			requestBody: map[string]interface{}{
				"userId": "u1",
				"items":  []map[string]interface{}{},
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Fail with zero quantity",
			requestBody: map[string]interface{}{
				"userId": "u1",
				"items": []map[string]interface{}{
					{"productId": "p1", "name": "Pastel", "price": 10, "quantity": 0},
				},
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Fail with negative price",
			requestBody: map[string]interface{}{
				"userId": "u1",
				"items": []map[string]interface{}{
					{"productId": "p1", "name": "Pastel", "price": -5, "quantity": 1},
				},
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			seedTestUser(t, db)
			router := setupTestRouter()
			router.POST("/api/orders", CreateOrder)

			body, _ := json.Marshal(tt.requestBody)
			req, _ := http.NewRequest(http.MethodPost, "/api/orders", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.checkResponse != nil {
				var response map[string]interface{}
				assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
				tt.checkResponse(t, response)
			}
		})
	}
}

func TestCreateOrderMalformedBody(t *testing.T) {
	db := setupTestDB(t)
	seedTestUser(t, db)
	router := setupTestRouter()
	router.POST("/api/orders", CreateOrder)

	req, _ := http.NewRequest(http.MethodPost, "/api/orders", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListActiveOrdersFIFO(t *testing.T) {
	db := setupTestDB(t)
	seedTestUser(t, db)
	router := setupTestRouter()
	router.GET("/api/orders", ListActiveOrders)

	// Insert out of creation order to prove the sort
	base := time.Now().UTC()
	orders := []models.Order{
		{ID: "3", UserID: "u1", Items: models.OrderItems{{ProductID: "p1", Name: "Pastel", Price: 10, Quantity: 1}}, Total: 10, Status: models.StatusActive, CreatedAt: base.Add(2 * time.Minute)},
		{ID: "1", UserID: "u1", Items: models.OrderItems{{ProductID: "p1", Name: "Pastel", Price: 10, Quantity: 1}}, Total: 10, Status: models.StatusActive, CreatedAt: base},
		{ID: "2", UserID: "u1", Items: models.OrderItems{{ProductID: "p1", Name: "Pastel", Price: 10, Quantity: 1}}, Total: 10, Status: models.StatusActive, CreatedAt: base.Add(time.Minute)},
		{ID: "4", UserID: "u1", Items: models.OrderItems{{ProductID: "p1", Name: "Pastel", Price: 10, Quantity: 1}}, Total: 10, Status: models.StatusCompleted, CreatedAt: base.Add(3 * time.Minute)},
	}
	for _, o := range orders {
		assert.NoError(t, db.Create(&o).Error)
	}

	req, _ := http.NewRequest(http.MethodGet, "/api/orders", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var listed []map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Len(t, listed, 3, "completed orders are not in the kitchen queue")
	assert.Equal(t, "1", listed[0]["id"])
	assert.Equal(t, "2", listed[1]["id"])
	assert.Equal(t, "3", listed[2]["id"])
}

func TestListOrderHistory(t *testing.T) {
	db := setupTestDB(t)
	seedTestUser(t, db)
	router := setupTestRouter()
	router.GET("/api/user-orders", ListOrderHistory)

	base := time.Now().UTC()
	orders := []models.Order{
		{ID: "1", UserID: "u1", Items: models.OrderItems{{ProductID: "p1", Name: "Pastel", Price: 10, Quantity: 1}}, Total: 10, Status: models.StatusCompleted, CreatedAt: base},
		{ID: "2", UserID: "u1", Items: models.OrderItems{{ProductID: "p1", Name: "Pastel", Price: 10, Quantity: 1}}, Total: 10, Status: models.StatusActive, CreatedAt: base.Add(time.Minute)},
		{ID: "3", UserID: "u2", Items: models.OrderItems{{ProductID: "p1", Name: "Pastel", Price: 10, Quantity: 1}}, Total: 10, Status: models.StatusActive, CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, o := range orders {
		assert.NoError(t, db.Create(&o).Error)
	}

	t.Run("Global history newest first", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/api/user-orders", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var listed []map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
		assert.Len(t, listed, 3, "history holds every order regardless of status")
		assert.Equal(t, "3", listed[0]["id"])
		assert.Equal(t, "1", listed[2]["id"])
	})

	t.Run("Filtered by userId", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/api/user-orders?userId=u1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var listed []map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
		assert.Len(t, listed, 2)
		for _, order := range listed {
			assert.Equal(t, "u1", order["userId"])
		}
	})
}

func TestCompleteOrderEndpoint(t *testing.T) {
	db := setupTestDB(t)
	seedTestUser(t, db)
	router := setupTestRouter()
	router.POST("/api/orders", CreateOrder)
	router.DELETE("/api/orders/:id", CompleteOrder)
	router.GET("/api/orders", ListActiveOrders)
	router.GET("/api/user-orders", ListOrderHistory)

	// Submit
	body, _ := json.Marshal(orderRequestBody())
	req, _ := http.NewRequest(http.MethodPost, "/api/orders", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	var created map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	orderID := created["id"].(string)

	// Complete
	req, _ = http.NewRequest(http.MethodDelete, "/api/orders/"+orderID, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var ack map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &ack))
	assert.Equal(t, true, ack["ok"])

	// Absent from the active queue
	req, _ = http.NewRequest(http.MethodGet, "/api/orders", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	var active []map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &active))
	assert.Empty(t, active)

	// Present in history as completed with a completion timestamp
	req, _ = http.NewRequest(http.MethodGet, "/api/user-orders?userId=u1", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	var history []map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	assert.Len(t, history, 1)
	assert.Equal(t, models.StatusCompleted, history[0]["status"])
	assert.NotEmpty(t, history[0]["completedAt"])
}

func TestCompleteOrderNotFoundEndpoint(t *testing.T) {
	setupTestDB(t)
	router := setupTestRouter()
	router.DELETE("/api/orders/:id", CompleteOrder)

	req, _ := http.NewRequest(http.MethodDelete, "/api/orders/unknown-id", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "ORDER_NOT_FOUND", errorData["code"])
}
