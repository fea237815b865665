package cache_test

import (
	"context"
	"fmt"

	"github.com/jonwraymond/opsdash/cache"
)

func ExampleLoader_Load() {
	loader := cache.NewLoader(cache.NewMemoryCache(128), cache.HashKeyer{}, cache.DefaultPolicy())
	ctx := context.Background()
	input := map[string]any{"path": "uploads/sales.csv", "size": 2048}

	summarize := func(ctx context.Context) ([]byte, error) {
		return []byte(`{"total_rows":42}`), nil
	}

	v, hit, _ := loader.Load(ctx, "data_analysis", input, summarize)
	fmt.Println(string(v), hit)
	v, hit, _ = loader.Load(ctx, "data_analysis", input, summarize)
	fmt.Println(string(v), hit)
	// Output:
	// {"total_rows":42} false
	// {"total_rows":42} true
}
