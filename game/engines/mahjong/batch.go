package mahjong

import (
	"context"
	"runtime"
	"sync"
)

// BatchItem 批量计算的一手牌
type BatchItem struct {
	Player    Player
	Prevalent Wind
}

type BatchResult struct {
	Index  int
	Result Result
	Err    error
}

// EvaluateBatch 并发计算多手牌，结果与输入同序。
// ctx 取消后未开始的手牌以 ctx.Err() 作为各自的错误返回
func EvaluateBatch(ctx context.Context, ev *Evaluator, items []BatchItem, workers int) ([]BatchResult, error) {
	if ev == nil {
		ev = DefaultEvaluator()
	}
	results := make([]BatchResult, len(items))
	if len(items) == 0 {
		return results, ctx.Err()
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(items) {
		workers = len(items)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					results[i] = BatchResult{Index: i, Err: err}
					continue
				}
				res, err := ev.Evaluate(items[i].Player, items[i].Prevalent)
				results[i] = BatchResult{Index: i, Result: res, Err: err}
			}
		}()
	}

feed:
	for i := range items {
		select {
		case jobs <- i:
		case <-ctx.Done():
			for j := i; j < len(items); j++ {
				results[j] = BatchResult{Index: j, Err: ctx.Err()}
			}
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	return results, ctx.Err()
}
