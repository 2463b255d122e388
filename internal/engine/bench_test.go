package engine

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

func BenchmarkScanWithStats(b *testing.B) {
	dir := b.TempDir()
	payload := strings.Repeat("x = 1\n", 256) + "api_key = \"sk-abcdefghijklmnopqrstuvwx\"\n"
	files := map[string]string{}
	for i := 0; i < 64; i++ {
		files[fmt.Sprintf("pkg%d/file.py", i)] = payload
	}
	writeTree(b, dir, files)

	for _, threads := range []int{1, 4, 16} {
		b.Run(fmt.Sprintf("threads_%d", threads), func(b *testing.B) {
			cfg := Config{Root: dir, Threads: threads, NoCache: true}
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := ScanWithStats(context.Background(), cfg); err != nil {
					b.Fatal(err)
				}
			}
			b.SetBytes(int64(len(payload) * len(files)))
		})
	}
}
