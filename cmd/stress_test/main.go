package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

const (
	serverURL     = "http://localhost:8080"
	totalRequests = 50
	concurrency   = 10
)

type lineItem struct {
	SKUCode  string  `json:"skuCode"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type orderRequest struct {
	OrderLineItems []lineItem `json:"orderLineItems"`
}

type orderResponse struct {
	Success     bool   `json:"success"`
	Code        string `json:"code"`
	Message     string `json:"message"`
	OrderNumber string `json:"orderNumber"`
}

func main() {
	body, err := json.Marshal(orderRequest{
		OrderLineItems: []lineItem{{SKUCode: "iphone_15", Quantity: 1, Price: 999.0}},
	})
	if err != nil {
		log.Fatalf("failed to marshal request: %v", err)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	sem := make(chan struct{}, concurrency)

	var placed, rejected, failed atomic.Int32
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			resp, err := client.Post(serverURL+"/api/order", "application/json", bytes.NewReader(body))
			if err != nil {
				failed.Add(1)
				return
			}
			defer resp.Body.Close()

			var out orderResponse
			if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
				failed.Add(1)
				return
			}

			switch {
			case out.Success:
				placed.Add(1)
			case out.Code == "invalid_sku" || out.Code == "out_of_stock":
				rejected.Add(1)
			default:
				failed.Add(1)
			}
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Total Requests:   %d\n", totalRequests)
	fmt.Printf("Placed:           %d\n", placed.Load())
	fmt.Printf("Rejected:         %d\n", rejected.Load())
	fmt.Printf("Failed:           %d\n", failed.Load())
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	if failed.Load() == 0 {
		fmt.Println("PASS: No infrastructure failures")
	} else {
		fmt.Printf("FAIL: %d requests hit infrastructure failures\n", failed.Load())
	}
}
