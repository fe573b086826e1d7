package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/d60-Lab/pingjob/internal/model"
	"github.com/d60-Lab/pingjob/internal/service"
	"github.com/d60-Lab/pingjob/internal/social"
)

// distbench compares publishing to each platform one after another with the
// concurrent Distributor, against a local fake API with fixed latency.
func main() {
	REPEAT := envInt("REPEAT", 30)
	LATENCY := time.Duration(envInt("LATENCY_MS", 80)) * time.Millisecond

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(LATENCY)
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/2/tweets" {
			_, _ = io.WriteString(w, `{"data":{"id":"1"}}`)
			return
		}
		_, _ = io.WriteString(w, `{"id":"1"}`)
	}))
	defer api.Close()

	publishers := social.NewPublishers(social.Credentials{
		Facebook:  social.FacebookCredentials{AccessToken: "bench", PageID: "page"},
		Twitter:   social.TwitterCredentials{APIKey: "k", APISecret: "s", AccessToken: "t", AccessTokenSecret: "ts"},
		Instagram: social.InstagramCredentials{AccessToken: "bench", UserID: "1"},
	}, social.Options{GraphBaseURL: api.URL, TwitterBaseURL: api.URL, HTTPClient: api.Client()})
	dist := service.NewDistributor(publishers, nil)
	job := &model.JobPosting{ID: 1, Title: "Backend Engineer", Company: "Acme Corp", Location: "Remote", Description: "bench"}

	sequential := func(ctx context.Context) time.Duration {
		st := time.Now()
		for _, p := range publishers {
			_, _ = p.Publish(ctx, job)
		}
		return time.Since(st)
	}
	concurrent := func(ctx context.Context) time.Duration {
		st := time.Now()
		_ = dist.DistributeToAll(ctx, job)
		return time.Since(st)
	}

	ctx := context.Background()
	seqs := make([]time.Duration, 0, REPEAT)
	cons := make([]time.Duration, 0, REPEAT)
	for i := 0; i < REPEAT; i++ {
		seqs = append(seqs, sequential(ctx))
	}
	for i := 0; i < REPEAT; i++ {
		cons = append(cons, concurrent(ctx))
	}

	fmt.Printf("REPEAT=%d LATENCY=%v PLATFORMS=%d\n", REPEAT, LATENCY, len(publishers))
	fmt.Printf("Sequential publish: avg=%v p95=%v p99=%v\n", avg(seqs), pct(seqs, 0.95), pct(seqs, 0.99))
	fmt.Printf("Concurrent publish: avg=%v p95=%v p99=%v\n", avg(cons), pct(cons, 0.95), pct(cons, 0.99))
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			return v
		}
	}
	return def
}

func avg(vs []time.Duration) time.Duration {
	var sum time.Duration
	for _, d := range vs {
		sum += d
	}
	return sum / time.Duration(len(vs))
}

func pct(vs []time.Duration, p float64) time.Duration {
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(float64(len(xs)) * p)
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}
