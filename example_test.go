package kvfifo_test

import (
	"context"
	"fmt"

	"github.com/timzifer/kvfifo"
)

func Example() {
	q := kvfifo.New[string, int]()
	_ = q.Push("A", 1)
	_ = q.Push("B", 2)
	_ = q.Push("A", 3)

	fmt.Println(q.Len(), q.Count("A"))

	_ = q.MoveToBack("A")
	for !q.Empty() {
		k, v, _ := q.PeekFront()
		fmt.Println(k, v)
		_ = q.Pop()
	}
	// Output:
	// 3 2
	// B 2
	// A 1
	// A 3
}

func ExampleQueue_Clone() {
	a := kvfifo.New[string, int]()
	_ = a.Push("x", 1)

	b := a.Clone()
	_ = b.Push("y", 2)

	fmt.Println(a)
	fmt.Println(b)
	// Output:
	// kvfifo[(x, 1)]
	// kvfifo[(x, 1) (y, 2)]
}

func ExampleQueue_Front() {
	a := kvfifo.New[string, int]()
	_ = a.Push("x", 1)

	_, v, _ := a.Front()
	b := a.Clone()
	*v = 10

	fmt.Println(a)
	fmt.Println(b)
	// Output:
	// kvfifo[(x, 10)]
	// kvfifo[(x, 1)]
}

func ExampleStage() {
	q := kvfifo.New[string, int]()
	_ = q.Push("job", 1)

	s, _ := q.Stage()
	_ = s.Queue().Push("job", 2)
	fmt.Println(q.Len())

	_ = s.Commit(context.Background())
	fmt.Println(q.Len())
	// Output:
	// 1
	// 2
}
