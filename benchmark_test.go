package circular_buffer_go

import (
	"context"
	"slices"
	"sync"
	"testing"
)

func producer(buffer LockingCircularBufferInterface[int], iterations int, wg *sync.WaitGroup) {
	defer wg.Done()

	for i := 0; i < iterations; i++ {
		if err := buffer.Put(context.Background(), i); err != nil {
			return
		}
	}
}

func consumer(buffer LockingCircularBufferInterface[int], iterations int, wg *sync.WaitGroup) {
	defer wg.Done()

	for i := 0; i < iterations; i++ {
		if _, err := buffer.Take(context.Background()); err != nil {
			return
		}
	}
}

func BenchmarkLockingCircularBuffer(b *testing.B) {
	buffer, err := NewLockingCircularBuffer[int](1024, WithSafe(true))
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()

	var wg sync.WaitGroup
	wg.Add(2)
	go producer(buffer, b.N, &wg)
	go consumer(buffer, b.N, &wg)
	wg.Wait()
}

func BenchmarkPushBack(b *testing.B) {
	buffer, err := NewCircularBuffer[int](1024)
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = buffer.PushBack(i)
	}
}

func benchmarkInsert(b *testing.B, insert func(buffer *CircularBuffer[int], values []int)) {
	const chunk = 700

	buffer, err := NewCircularBuffer[int](1024)
	if err != nil {
		b.Fatal(err)
	}

	values := make([]int, chunk)
	for i := range values {
		values[i] = i
	}

	b.SetBytes(chunk * 8)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		insert(buffer, values)
	}
}

func BenchmarkInsertBack(b *testing.B) {
	benchmarkInsert(b, func(buffer *CircularBuffer[int], values []int) {
		buffer.InsertBack(values...)
	})
}

func BenchmarkInsertBackSeq(b *testing.B) {
	benchmarkInsert(b, func(buffer *CircularBuffer[int], values []int) {
		buffer.InsertBackSeq(slices.Values(values))
	})
}

func BenchmarkResize(b *testing.B) {
	buffer, err := NewCircularBuffer[int](4096)
	if err != nil {
		b.Fatal(err)
	}
	buffer.InsertBack(make([]int, 4096)...)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if i%2 == 0 {
			_ = buffer.Resize(2048)
		} else {
			_ = buffer.Resize(4096)
		}
	}
}
