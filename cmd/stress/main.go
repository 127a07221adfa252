package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/muhammadchandra19/flashsale/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	var (
		baseURL      = flag.String("url", "http://localhost:3000", "Base URL of the reservation server")
		itemID       = flag.String("item", "676f00000000000000000001", "Item to buy")
		buyers       = flag.Int("buyers", 50, "Number of concurrent buyers")
		initialStock = flag.Int64("initial-stock", 10, "Stock the item was seeded with")
		timeout      = flag.Duration("timeout", 30*time.Second, "Overall timeout")
	)
	flag.Parse()

	log, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	s := &stressor{
		client: &http.Client{
			Timeout:   *timeout,
			Transport: &http.Transport{MaxIdleConnsPerHost: *buyers},
		},
		baseURL: *baseURL,
	}

	report, err := s.Run(ctx, *itemID, *buyers)
	if err != nil {
		log.GetZap().Fatal("Stress run failed", zap.Error(err))
	}

	statuses := make([]int, 0, len(report.ByStatus))
	for status := range report.ByStatus {
		statuses = append(statuses, status)
	}
	sort.Ints(statuses)

	fmt.Printf("buyers=%d elapsed=%s\n", *buyers, report.Elapsed)
	for _, status := range statuses {
		fmt.Printf("  %d %s: %d\n", status, http.StatusText(status), report.ByStatus[status])
	}
	fmt.Printf("  transport failures: %d\n", report.Failures)
	fmt.Printf("final stock: %d\n", report.FinalStock)

	if !report.Pass(*buyers, *initialStock) {
		fmt.Println("FAIL")
		os.Exit(1)
	}
	fmt.Println("PASS")
}
