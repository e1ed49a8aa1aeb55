package ecs

type Position struct {
	X, Y float64
}

type Velocity struct {
	X, Y float64
}

type Health int

type Tag struct {
	Name string
}

func newTestRegistry() *Registry {
	r := NewRegistry()
	MustRegisterComponent[Position](r)
	MustRegisterComponent[Velocity](r)
	MustRegisterComponent[Health](r)
	return r
}

func collect(z *Zipper) []int {
	var out []int
	for i := range z.Indices() {
		out = append(out, i)
	}
	return out
}

func storeWith(indices ...int) *SparseArray[int] {
	s := NewSparseArray[int]()
	for _, i := range indices {
		s.Insert(i, i*10)
	}
	return s
}
