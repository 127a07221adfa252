package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type purchaseBody struct {
	BuyerID  string `json:"buyerId"`
	ItemID   string `json:"itemId"`
	Quantity int64  `json:"quantity"`
}

type stockBody struct {
	ItemID string `json:"itemId"`
	Stock  int64  `json:"stock"`
}

// Report counts responses by HTTP status.
type Report struct {
	ByStatus   map[int]int
	Failures   int
	FinalStock int64
	Elapsed    time.Duration
}

// Purchased is the number of 200 responses.
func (r Report) Purchased() int {
	return r.ByStatus[http.StatusOK]
}

// OutOfStock is the number of 409 responses.
func (r Report) OutOfStock() int {
	return r.ByStatus[http.StatusConflict]
}

// Pass reports whether exactly initialStock single-unit purchases went through
// and every other buyer was told the item is out of stock.
func (r Report) Pass(buyers int, initialStock int64) bool {
	want := min(int64(buyers), initialStock)
	return r.Failures == 0 &&
		int64(r.Purchased()) == want &&
		int64(r.OutOfStock()) == int64(buyers)-want &&
		r.FinalStock == initialStock-want
}

type stressor struct {
	client  *http.Client
	baseURL string
}

// Run fires one purchase per buyer at the same time, each from a distinct origin,
// and then reads the final stock.
func (s *stressor) Run(ctx context.Context, itemID string, buyers int) (Report, error) {
	report := Report{ByStatus: map[int]int{}}
	runID := ulid.Make().String()

	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		start = make(chan struct{})
	)
	begin := time.Now()
	for i := range buyers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start

			status, err := s.purchase(ctx, purchaseBody{
				BuyerID:  fmt.Sprintf("stress-%s-%d", runID, i),
				ItemID:   itemID,
				Quantity: 1,
			}, fmt.Sprintf("10.%d.%d.%d", (i>>16)&0xff, (i>>8)&0xff, i&0xff))

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failures++
				return
			}
			report.ByStatus[status]++
		}(i)
	}
	close(start)
	wg.Wait()
	report.Elapsed = time.Since(begin)

	final, err := s.stock(ctx, itemID)
	if err != nil {
		return report, err
	}
	report.FinalStock = final
	return report, nil
}

func (s *stressor) purchase(ctx context.Context, body purchaseBody, origin string) (int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/purchase", bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", origin)

	res, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)

	return res.StatusCode, nil
}

func (s *stressor) stock(ctx context.Context, itemID string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/items/"+itemID+"/stock", nil)
	if err != nil {
		return 0, err
	}
	res, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("stock request returned %d", res.StatusCode)
	}
	var body stockBody
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return 0, err
	}
	return body.Stock, nil
}
