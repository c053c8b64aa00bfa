package geom_test

import (
	"fmt"

	"github.com/matzehuels/cablemoment/pkg/geom"
)

func ExampleSegment_OffsetAt() {
	// An L-shaped cable run: 100 units east, then 50 units north.
	s := geom.NewSegment("w1", geom.Pt(0, 0), geom.Pt(100, 0), geom.Pt(100, 50))

	fmt.Println("length:", s.Length())
	fmt.Println("offset of (100,20):", s.OffsetAt(geom.Pt(100, 20)))

	s.Reverse()
	fmt.Println("offset after reverse:", s.OffsetAt(geom.Pt(100, 20)))
	// Output:
	// length: 150
	// offset of (100,20): 120
	// offset after reverse: 30
}
